package events

import (
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/nebulia-tech/librairie/internal/model"
	"github.com/nebulia-tech/librairie/pkg/kafka"
)

const (
	TypeLoanBorrowed = "loan.borrowed"
	TypeLoanReturned = "loan.returned"
	TypeReminderSent = "loan.reminder_sent"
)

type LoanEvent struct {
	Type    string    `json:"type"`
	LoanID  int       `json:"loanId"`
	BookID  int       `json:"bookId,omitempty"`
	UserID  int       `json:"userId,omitempty"`
	Email   string    `json:"email,omitempty"`
	DueAt   time.Time `json:"dueAt"`
	EventAt time.Time `json:"eventAt"`
}

// Publisher emits the loan audit stream. Delivery is best effort: failures
// are logged, never surfaced to the caller.
type Publisher interface {
	LoanBorrowed(loan model.Loan)
	LoanReturned(loan model.Loan)
	ReminderSent(c model.OverdueCandidate)
}

type kafkaPublisher struct {
	producer sarama.SyncProducer
	log      *zap.Logger
}

func NewPublisher(producer sarama.SyncProducer, log *zap.Logger) Publisher {
	return &kafkaPublisher{
		producer: producer,
		log:      log.Named("events"),
	}
}

func (p *kafkaPublisher) publish(ev LoanEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		p.log.Error("marshal", zap.Error(err))
		return
	}
	msg := &sarama.ProducerMessage{Topic: kafka.LoanEventsTopic, Value: sarama.StringEncoder(data)}
	if _, _, err = p.producer.SendMessage(msg); err != nil {
		p.log.Error("publish", zap.String("type", ev.Type), zap.Error(err))
	}
}

func (p *kafkaPublisher) LoanBorrowed(loan model.Loan) {
	p.publish(LoanEvent{
		Type:    TypeLoanBorrowed,
		LoanID:  loan.ID,
		BookID:  loan.BookID,
		UserID:  loan.UserID,
		DueAt:   loan.DueAt,
		EventAt: time.Now().UTC(),
	})
}

func (p *kafkaPublisher) LoanReturned(loan model.Loan) {
	p.publish(LoanEvent{
		Type:    TypeLoanReturned,
		LoanID:  loan.ID,
		BookID:  loan.BookID,
		UserID:  loan.UserID,
		DueAt:   loan.DueAt,
		EventAt: time.Now().UTC(),
	})
}

func (p *kafkaPublisher) ReminderSent(c model.OverdueCandidate) {
	p.publish(LoanEvent{
		Type:    TypeReminderSent,
		LoanID:  c.LoanID,
		Email:   c.UserEmail,
		DueAt:   c.DueAt,
		EventAt: time.Now().UTC(),
	})
}

// Nop is used when no brokers are configured.
type Nop struct{}

func (Nop) LoanBorrowed(model.Loan)             {}
func (Nop) LoanReturned(model.Loan)             {}
func (Nop) ReminderSent(model.OverdueCandidate) {}
