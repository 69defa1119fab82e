package session

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/abhisek/empathiz/internal/voice"
)

// toggleVoice starts recording into the current prompt, or stops the
// running recording.
func (s *SessionScreen) toggleVoice() {
	if s.recording != nil {
		s.stopVoice()
		return
	}
	if s.boxPrompt < 0 || s.inflight[s.boxPrompt] {
		return
	}

	s.tokens++
	rec := &recording{token: s.tokens, prompt: s.boxPrompt}
	s.active.Store(rec)

	if err := s.voice.Start(context.Background(), s.input.Value()); err != nil {
		s.active.Store(nil)
		if errors.Is(err, voice.ErrUnsupported) {
			s.notice = "Voice input is not available. Set EMPATHIZ_VOICE_URL to enable it."
		} else {
			s.notice = err.Error()
		}
		s.log.Info("voice start failed", zap.Error(err))
		return
	}
	s.recording = rec
	s.notice = ""
}

// stopVoice ends the running recording and keeps its last text.
func (s *SessionScreen) stopVoice() {
	if s.recording == nil {
		return
	}
	_ = s.voice.Stop()
	s.settle(s.recording)
}

// settle takes the adapter's final buffer into the recording's prompt.
func (s *SessionScreen) settle(rec *recording) {
	text := s.voice.Text()
	s.drafts[rec.prompt] = text
	if s.boxPrompt == rec.prompt {
		s.input.SetValue(text)
	}
	s.recording = nil
	s.active.Store(nil)
}

// publishVoice runs on the adapter's goroutine with the adapter lock held,
// so it only hands the text to the program.
func (s *SessionScreen) publishVoice(text string) {
	rec := s.active.Load()
	if rec == nil || s.svc.Send == nil {
		return
	}
	msg := voiceTextMsg{
		Token:       rec.token,
		Seq:         s.seq.Add(1),
		PromptIndex: rec.prompt,
		Text:        text,
	}
	go s.svc.Send(msg)
}

func (s *SessionScreen) voiceStopped(err error) {
	rec := s.active.Load()
	if rec == nil || s.svc.Send == nil {
		return
	}
	go s.svc.Send(voiceStoppedMsg{Token: rec.token, Err: err})
}

func (s *SessionScreen) handleVoiceText(msg voiceTextMsg) {
	if s.recording == nil || msg.Token != s.recording.token || msg.Seq <= s.lastSeq {
		return
	}
	s.lastSeq = msg.Seq
	s.drafts[msg.PromptIndex] = msg.Text
	if s.boxPrompt == msg.PromptIndex {
		s.input.SetValue(msg.Text)
	}
}

func (s *SessionScreen) handleVoiceStopped(msg voiceStoppedMsg) {
	if s.recording == nil || msg.Token != s.recording.token {
		return
	}
	s.settle(s.recording)
	if msg.Err != nil {
		s.notice = msg.Err.Error()
	} else {
		s.notice = "Recording ended."
	}
}
