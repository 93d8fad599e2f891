// Package viz renders closed-loop runs in the terminal, either as a
// static ascii chart of a finished run or as a live interactive view
// that steps the loop in real time and lets the user retune the
// regulator while it runs.
package viz
