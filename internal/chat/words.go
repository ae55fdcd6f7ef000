package chat

import "strings"

// YesWords are the normalized inputs treated as an affirmative answer.
var YesWords = map[string]bool{
	"yes": true, "yep": true, "yeah": true, "y": true,
	"correct": true, "right": true, "confirm": true,
	"looks good": true, "that's right": true, "thats right": true,
	"ok": true, "okay": true, "sure": true, "perfect": true,
	"good": true, "approved": true, "approve": true, "done": true,
	"lgtm": true,
}

// DoneWords are the normalized inputs treated as "done" or "no more".
var DoneWords = map[string]bool{
	"done": true, "that's all": true, "thats all": true,
	"no more": true, "nothing else": true, "none": true,
	"nope": true, "n": true, "skip": true, "no": true,
	"done - review features": true, "done - lock and continue": true,
	"done - no optional features": true, "done - approve features": true,
}

// normalize lowercases the input and strips surrounding whitespace plus
// trailing punctuation, so "Yes!" and "yes" match the same word.
func normalize(text string) string {
	return strings.TrimRight(strings.ToLower(strings.TrimSpace(text)), "!.,")
}

// IsAffirmative reports whether the text reads as a yes.
func IsAffirmative(text string) bool {
	return YesWords[normalize(text)]
}

// IsDone reports whether the text signals the user is finished.
func IsDone(text string) bool {
	return DoneWords[normalize(text)]
}
