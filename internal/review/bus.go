package review

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.uber.org/zap"

	"github.com/abhisek/empathiz/internal/logging"
	"github.com/abhisek/empathiz/internal/store"
)

// TopicCompleted carries JSON-encoded reports of finished tests.
const TopicCompleted = "review.completed"

// NewBus creates the in-process pub/sub used for review handoff. Publish
// returns once a subscriber has acked, so a published report is stored.
func NewBus() *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer:            16,
		BlockPublishUntilSubscriberAck: true,
	}, watermill.NopLogger{})
}

// Publisher hands finished reports to subscribers.
type Publisher struct {
	pub message.Publisher
	log *zap.Logger
}

// NewPublisher creates a Publisher on pub.
func NewPublisher(pub message.Publisher, log *zap.Logger) *Publisher {
	return &Publisher{pub: pub, log: logging.OrNop(log).Named("review")}
}

// Publish sends r on TopicCompleted.
func (p *Publisher) Publish(r *Report) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	msg := message.NewMessage(r.ID, payload)
	msg.Metadata.Set("session_id", r.SessionID)

	if err := p.pub.Publish(TopicCompleted, msg); err != nil {
		return fmt.Errorf("publish report: %w", err)
	}
	p.log.Info("report published",
		zap.String("report_id", r.ID),
		zap.String("session_id", r.SessionID),
		zap.Float64("overall", r.Overall),
	)
	return nil
}

// Recorder persists published reports and records the session as reviewed.
type Recorder struct {
	reviews store.ReviewRepo
	events  store.EventRepo
	log     *zap.Logger
	saved   chan string
}

// NewRecorder creates a Recorder. events may be nil.
func NewRecorder(reviews store.ReviewRepo, events store.EventRepo, log *zap.Logger) *Recorder {
	return &Recorder{
		reviews: reviews,
		events:  events,
		log:     logging.OrNop(log).Named("review.recorder"),
		saved:   make(chan string, 16),
	}
}

// Saved delivers the ID of every report stored. Sends never block; IDs are
// dropped when nobody reads.
func (r *Recorder) Saved() <-chan string { return r.saved }

// Run subscribes to TopicCompleted and stores reports until ctx is done.
func (r *Recorder) Run(ctx context.Context, sub message.Subscriber) error {
	messages, err := sub.Subscribe(ctx, TopicCompleted)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", TopicCompleted, err)
	}
	go func() {
		for msg := range messages {
			r.handle(msg)
		}
	}()
	return nil
}

func (r *Recorder) handle(msg *message.Message) {
	var rep Report
	if err := json.Unmarshal(msg.Payload, &rep); err != nil {
		r.log.Error("discarding undecodable report", zap.String("uuid", msg.UUID), zap.Error(err))
		msg.Ack()
		return
	}

	ctx := msg.Context()
	err := r.reviews.Save(ctx, store.ReviewRecord{
		ID:           rep.ID,
		SessionID:    rep.SessionID,
		TopicID:      rep.TopicID,
		TopicName:    rep.TopicName,
		PromptCount:  len(rep.Prompts),
		OverallScore: rep.Overall,
		Report:       msg.Payload,
		CreatedAt:    rep.CreatedAt,
	})
	if err != nil {
		// A redelivered report would fail the same way.
		r.log.Error("save report", zap.String("report_id", rep.ID), zap.Error(err))
		msg.Ack()
		return
	}

	if r.events != nil {
		err := r.events.AppendSessionEvent(ctx, store.SessionEventData{
			SessionID:    rep.SessionID,
			Action:       store.SessionReviewed,
			TopicID:      rep.TopicID,
			PromptCount:  len(rep.Prompts),
			Answered:     len(rep.Prompts),
			DurationSecs: int(rep.Duration.Seconds()),
		})
		if err != nil {
			r.log.Warn("record review event", zap.Error(err))
		}
	}

	msg.Ack()
	r.log.Info("report saved", zap.String("report_id", rep.ID))
	select {
	case r.saved <- rep.ID:
	default:
	}
}

// Decode parses a stored report.
func Decode(rec store.ReviewRecord) (*Report, error) {
	var rep Report
	if err := json.Unmarshal(rec.Report, &rep); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", rec.ID, err)
	}
	return &rep, nil
}
