// Package chat implements the message exchange flow of the widget: a user
// submission becomes a USER entry, one request to the backend, and exactly one
// BOT entry carrying either the reply or a fixed error placeholder.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/linanwx/chatwidget/exchange"
	"github.com/linanwx/chatwidget/logger"
	"github.com/linanwx/chatwidget/transcript"
)

// ErrorPlaceholder is the BOT text shown for any failed exchange.
const ErrorPlaceholder = "Sorry, there was an error processing your request."

var (
	// ErrEmptyInput is returned by Begin when the input is blank after trimming.
	ErrEmptyInput = errors.New("empty input")
	// ErrBusy is returned by Begin under SendSerial while an exchange is outstanding.
	ErrBusy = errors.New("an exchange is already in flight")
)

// SendPolicy decides whether sends may overlap.
type SendPolicy int

const (
	// SendSerial allows one outstanding exchange; further sends are rejected until it settles.
	SendSerial SendPolicy = iota
	// SendConcurrent allows any number of overlapping exchanges. Replies may render
	// out of order relative to their user messages.
	SendConcurrent
)

// ParseSendPolicy converts a config value into a SendPolicy.
func ParseSendPolicy(s string) (SendPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "serial":
		return SendSerial, nil
	case "concurrent":
		return SendConcurrent, nil
	default:
		return SendSerial, fmt.Errorf("unknown send policy %q", s)
	}
}

func (p SendPolicy) String() string {
	if p == SendConcurrent {
		return "concurrent"
	}
	return "serial"
}

// Exchanger performs one request/response cycle with the backend.
type Exchanger interface {
	Send(ctx context.Context, req exchange.Request) (string, error)
}

// View renders transcript entries. Render is called once per appended message,
// in transcript order, and must leave the newest entry visible.
type View interface {
	Render(msg transcript.Message)
}

// Config holds controller dependencies.
type Config struct {
	Exchanger Exchanger
	View      View // optional
	Policy    SendPolicy
}

// Pending is an exchange that has been started but not settled.
type Pending struct {
	User transcript.Message

	settled bool
}

// Outcome is the result of an exchange: a reply or an error, never both.
type Outcome struct {
	Reply string
	Err   error
	Took  time.Duration
}

// Controller owns the transcript and turns submissions into exchanges.
type Controller struct {
	exchanger  Exchanger
	view       View
	policy     SendPolicy
	slot       *semaphore.Weighted
	transcript *transcript.Transcript

	mu          sync.Mutex // serialises append+render and Pending state
	outstanding int
}

// NewController creates a controller with an empty transcript.
func NewController(cfg Config) *Controller {
	return &Controller{
		exchanger:  cfg.Exchanger,
		view:       cfg.View,
		policy:     cfg.Policy,
		slot:       semaphore.NewWeighted(1),
		transcript: transcript.New(),
	}
}

// Transcript returns the transcript owned by the controller.
func (c *Controller) Transcript() *transcript.Transcript { return c.transcript }

// Outstanding returns the number of exchanges begun but not yet settled.
func (c *Controller) Outstanding() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outstanding
}

// Begin validates raw input and, when accepted, appends and renders the USER
// message. The caller clears its input field only when err is nil.
func (c *Controller) Begin(raw string) (*Pending, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, ErrEmptyInput
	}
	if c.policy == SendSerial && !c.slot.TryAcquire(1) {
		logger.Debug("send rejected, exchange in flight")
		return nil, ErrBusy
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	p := &Pending{User: transcript.UserMessage(text)}
	c.outstanding++
	c.appendLocked(p.User)
	return p, nil
}

// Exchange performs the network call for p. It blocks and must not run on the UI thread.
func (c *Controller) Exchange(ctx context.Context, p *Pending) Outcome {
	start := time.Now()
	if c.exchanger == nil {
		return Outcome{Err: errors.New("no exchanger configured"), Took: time.Since(start)}
	}
	reply, err := c.exchanger.Send(ctx, exchange.Request{ID: p.User.ID, Message: p.User.Text})
	return Outcome{Reply: reply, Err: err, Took: time.Since(start)}
}

// Settle appends and renders the BOT message for p. A Pending settles once;
// later calls return the zero Message and append nothing.
func (c *Controller) Settle(p *Pending, out Outcome) transcript.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p == nil || p.settled {
		return transcript.Message{}
	}
	p.settled = true
	c.outstanding--
	if c.policy == SendSerial {
		c.slot.Release(1)
	}

	if out.Err != nil {
		logger.Error(
			"chat exchange failed",
			"id", p.User.ID,
			"kind", exchange.KindOf(out.Err),
			"latencyMs", out.Took.Milliseconds(),
			"err", out.Err,
		)
	} else {
		logger.Info("chat exchange done", "id", p.User.ID, "latencyMs", out.Took.Milliseconds())
	}

	msg := transcript.BotMessage(ReplyText(out.Reply, out.Err))
	c.appendLocked(msg)
	return msg
}

// Abandon releases p without appending anything. Used when the surface is
// torn down while the exchange is in flight.
func (c *Controller) Abandon(p *Pending) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p == nil || p.settled {
		return
	}
	p.settled = true
	c.outstanding--
	if c.policy == SendSerial {
		c.slot.Release(1)
	}
	logger.Debug("chat exchange abandoned", "id", p.User.ID)
}

// Submit runs Begin, then Exchange and Settle on a goroutine. The returned
// channel yields the BOT message once and is then closed. If ctx ends while
// the exchange is in flight the channel is closed without a value.
func (c *Controller) Submit(ctx context.Context, raw string) (<-chan transcript.Message, error) {
	p, err := c.Begin(raw)
	if err != nil {
		return nil, err
	}
	done := make(chan transcript.Message, 1)
	go func() {
		defer close(done)
		out := c.Exchange(ctx, p)
		if ctx.Err() != nil {
			c.Abandon(p)
			return
		}
		done <- c.Settle(p, out)
	}()
	return done, nil
}

func (c *Controller) appendLocked(msg transcript.Message) {
	c.transcript.Append(msg)
	if c.view != nil {
		c.view.Render(msg)
	}
}

// ReplyText maps an exchange result to the text shown to the user.
func ReplyText(reply string, err error) string {
	if err != nil {
		return ErrorPlaceholder
	}
	return reply
}
