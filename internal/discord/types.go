package discord

// Discord rejects activity strings outside these bounds.
const (
	MinTextLen    = 2
	MaxTextLen    = 128
	MaxButtons    = 2
	MaxButtonText = 32
)

// Activity is the rich presence shown on the user's profile.
type Activity struct {
	Details    string
	State      string
	Assets     *Assets
	Timestamps *Timestamps
	Buttons    []Button
}

// Assets are the images shown next to the activity.
type Assets struct {
	LargeImage string
	LargeText  string
	SmallImage string
	SmallText  string
}

// Timestamps drive the elapsed/remaining clock. Values are unix seconds.
type Timestamps struct {
	Start int64
	End   int64
}

// Button is a link shown under the activity.
type Button struct {
	Label string
	URL   string
}
