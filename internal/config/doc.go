// Package config loads and saves the shelfcord presence configuration.
//
// # Overview
//
// The configuration is a small JSON object kept at
// ~/.config/shelfcord/config.json. It names the Discord application used for
// rich presence, the Goodreads user whose shelf is scraped, the refresh
// interval and the flags shown in the configuration form.
//
// # File Format
//
//	{
//	    "discordAppId": "1356666997760462859",
//	    "goodreadsUserId": "12345678-jane-doe",
//	    "refreshInterval": 60,
//	    "keepRunning": true,
//	    "minimizeToTray": false,
//	    "runOnStartup": false,
//	    "lastBookId": ""
//	}
//
// Files are read with a JSON5 decoder, so hand edits with comments or
// trailing commas still load. Save always writes strict, indented JSON.
//
// # Defaults
//
// Load writes the defaults to disk when the file does not exist, the same
// way the first run of the desktop tool did. Missing or zero fields in an
// existing file are filled from Default. refreshInterval is clamped to a
// 15 second minimum so the shelf page is not hammered.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - Read errors other than os.ErrNotExist
//   - Parse errors ("parse config: ...")
//
// Validate separates a syntactically valid file from a usable one; callers
// check errors.Is(err, ErrPlaceholderUser) to prompt for the Goodreads id.
package config
