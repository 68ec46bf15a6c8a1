// Package history keeps a small JSON record of every book seen on the
// currently-reading shelf. The poller records each successful fetch, and the
// saved lastBookId selection is only honoured for ids found here.
package history
