package session

// submitDoneMsg reports the outcome of one submission, addressed by
// prompt index.
type submitDoneMsg struct {
	PromptIndex int
	Err         error
}

// voiceTextMsg carries the adapter's buffer after one speech event. Seq
// orders messages that are delivered from separate goroutines.
type voiceTextMsg struct {
	Token       uint64
	Seq         uint64
	PromptIndex int
	Text        string
}

// voiceStoppedMsg reports that the engine ended a recording on its own,
// with an error or without.
type voiceStoppedMsg struct {
	Token uint64
	Err   error
}

// sessionEventMsg reports a failed lifecycle event write.
type sessionEventMsg struct {
	Err error
}
