package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fieldserve/repairline/internal/adapter/queue"
	"github.com/fieldserve/repairline/internal/dialogue"
	"github.com/fieldserve/repairline/internal/domain"
	"github.com/fieldserve/repairline/internal/observability/telemetry"
	"github.com/fieldserve/repairline/internal/ports"
)

// historyLimit caps the transcript carried on the conversation record. The
// fallback responder only ever sees the most recent exchanges.
const historyLimit = 20

// recentHistoryTurns is how many transcript lines go to the fallback responder.
const recentHistoryTurns = 6

const (
	subjectTurnCompleted  = "turn.completed"
	subjectBookingCreated = "booking.created"
)

// Service sequences one inbound turn: load state, run extraction, pick the
// reply (FAQ, flow script, or generative fallback), then fire the best-effort
// side effects. Turns are independent units of work; nothing is shared across
// them except what the conversation store persists.
type Service struct {
	conversations ports.ConversationService
	tenants       ports.TenantService
	faqs          ports.FAQService
	audio         ports.AudioService
	responder     ports.Responder
	email         ports.EmailService
	payments      ports.PaymentService
	mq            queue.MessageQueue
	log           *zap.Logger
}

func NewService(
	conversations ports.ConversationService,
	tenants ports.TenantService,
	faqs ports.FAQService,
	audio ports.AudioService,
	responder ports.Responder,
	email ports.EmailService,
	payments ports.PaymentService,
	mq queue.MessageQueue,
	log *zap.Logger,
) ports.DispatchService {
	return &Service{
		conversations: conversations,
		tenants:       tenants,
		faqs:          faqs,
		audio:         audio,
		responder:     responder,
		email:         email,
		payments:      payments,
		mq:            mq,
		log:           log,
	}
}

func (s *Service) HandleTurn(ctx context.Context, turn domain.Turn) (*domain.Reply, error) {
	start := time.Now()

	utterance := strings.TrimSpace(turn.Utterance)
	if utterance == "" {
		return nil, fmt.Errorf("empty utterance for contact %s", turn.ContactID)
	}

	lookup := s.conversations.Get(ctx, turn.TenantID, turn.ContactID, turn.Channel)
	conv := lookup.Conversation
	if lookup.Outcome == domain.LookupDegraded {
		telemetry.StoreDegradationsTotal.Inc()
	}

	// Tenant config and the FAQ match neither depend on each other nor on
	// extraction; fetch them concurrently. Either one degrades on failure
	// rather than aborting the turn.
	var (
		wg     sync.WaitGroup
		tenant *domain.Tenant
		faq    *domain.FAQ
		faqHit bool
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		t, err := s.tenants.ByID(ctx, turn.TenantID)
		if err != nil {
			s.log.Warn("tenant lookup failed, using defaults",
				zap.String("tenant_id", turn.TenantID),
				zap.Error(err),
			)
			return
		}
		tenant = t
	}()
	go func() {
		defer wg.Done()
		faq, faqHit = s.faqs.Match(ctx, turn.TenantID, utterance)
	}()
	wg.Wait()

	priorStep := conv.Step
	slots := dialogue.Extract(utterance, conv.Slots)
	gotNewField := extractedNewField(conv.Slots, slots)
	conv.Slots = slots

	var reply domain.Reply
	switch {
	case faqHit:
		telemetry.FAQMatchesTotal.Inc()
		reply = domain.Reply{Text: faq.Answer, AudioURL: faq.AudioURL, Source: domain.ReplySourceFAQ}
	case !gotNewField && priorStep == domain.StepComplete:
		// Booking already done and the utterance carried nothing scripted;
		// this is the only turn shape the generative fallback handles.
		reply = domain.Reply{Text: s.generate(ctx, tenant, conv, utterance), Source: domain.ReplySourceModel}
	default:
		reply = domain.Reply{Text: dialogue.NextResponse(slots, turn.Channel), Source: domain.ReplySourceFlow}
	}

	missing := dialogue.MissingFields(slots)
	switch {
	case len(missing) == 0:
		conv.Step = domain.StepComplete
	case priorStep == domain.StepGreeting:
		conv.Step = domain.StepCollecting
	}

	if len(missing) == 0 && priorStep != domain.StepComplete {
		telemetry.BookingsTotal.Inc()
		link := s.bookingSideEffects(ctx, turn, tenant, slots)
		if link != "" && turn.Channel == domain.ChannelText {
			reply.Text += " You can pay the $89 diagnostic fee ahead of time here: " + link
		}
	}

	if turn.Channel == domain.ChannelVoice && reply.AudioURL == "" {
		if tpl, ok := s.audio.MatchReply(ctx, turn.TenantID, reply.Text); ok {
			telemetry.AudioMatchesTotal.Inc()
			reply.AudioURL = tpl.URL
		}
	}

	conv.History = append(conv.History, "caller: "+utterance, "agent: "+reply.Text)
	if len(conv.History) > historyLimit {
		conv.History = conv.History[len(conv.History)-historyLimit:]
	}

	reply.Slots = slots
	reply.Completion = dialogue.CompletionPercent(slots)

	// The reply goes back before the state write or the event publish land.
	// Both are best-effort; the conversation service swallows write failures.
	bg := context.WithoutCancel(ctx)
	event := reply
	go func() {
		s.conversations.Update(bg, conv)
		s.publishTurnEvent(turn, event)
	}()

	telemetry.TurnsTotal.WithLabelValues(string(turn.Channel), string(reply.Source)).Inc()
	telemetry.TurnLatency.Observe(time.Since(start).Seconds())

	return &reply, nil
}

// extractedNewField reports whether extraction changed any slot besides the
// derived completion percentage.
func extractedNewField(prior, next domain.SlotSet) bool {
	for k, v := range next {
		if k == domain.SlotCompletion {
			continue
		}
		if prior.Get(k) != v {
			return true
		}
	}
	return false
}

func (s *Service) generate(ctx context.Context, tenant *domain.Tenant, conv *domain.Conversation, utterance string) string {
	prompt := systemPrompt(tenant, conv.Slots)

	history := conv.History
	if len(history) > recentHistoryTurns {
		history = history[len(history)-recentHistoryTurns:]
	}

	text, err := s.responder.Respond(ctx, utterance, prompt, history)
	if err != nil || strings.TrimSpace(text) == "" {
		telemetry.FallbackCallsTotal.WithLabelValues("error").Inc()
		s.log.Error("fallback responder failed",
			zap.String("tenant_id", conv.TenantID),
			zap.Error(err),
		)
		return apology(conv.Channel)
	}

	telemetry.FallbackCallsTotal.WithLabelValues("ok").Inc()
	return text
}

// apology is the channel-appropriate reply when the fallback responder itself
// fails. Raw error text never reaches the caller.
func apology(ch domain.Channel) string {
	if ch == domain.ChannelVoice {
		return "I'm sorry, I'm having a little trouble on my end. Could you say that one more time?"
	}
	return "Sorry, something went wrong on our end. Please send that again in a moment."
}

func systemPrompt(tenant *domain.Tenant, slots domain.SlotSet) string {
	name := "the repair company"
	if tenant != nil && tenant.Name != "" {
		name = tenant.Name
	}

	var b strings.Builder
	b.WriteString("You are the phone receptionist for ")
	b.WriteString(name)
	b.WriteString(", a home appliance repair company. Be brief and friendly. ")
	b.WriteString("The booking details already collected are: ")
	if data, err := json.Marshal(slots); err == nil {
		b.Write(data)
	}
	b.WriteString(". Do not ask again for details already collected.")
	return b.String()
}

// bookingSideEffects runs once, on the turn the last required field lands.
// Every effect is best-effort: the confirmation summary goes back to the
// caller regardless of what fails here.
func (s *Service) bookingSideEffects(ctx context.Context, turn domain.Turn, tenant *domain.Tenant, slots domain.SlotSet) string {
	booking := domain.BookingFromSlots(turn.TenantID, turn.ContactID, slots)

	if err := s.email.SendBookingConfirmation(ctx, tenant, booking); err != nil {
		s.log.Error("failed to send booking confirmation",
			zap.String("tenant_id", turn.TenantID),
			zap.Error(err),
		)
	}

	link, err := s.payments.CreateDiagnosticFeeLink(ctx, booking)
	if err != nil {
		s.log.Error("failed to create diagnostic fee payment link",
			zap.String("tenant_id", turn.TenantID),
			zap.Error(err),
		)
		link = ""
	}

	if data, err := json.Marshal(booking); err == nil {
		if err := s.mq.Publish(subjectBookingCreated, data); err != nil {
			s.log.Warn("failed to publish booking event", zap.Error(err))
		}
	}

	return link
}

type turnEvent struct {
	TenantID   string `json:"tenant_id"`
	ContactID  string `json:"contact_id"`
	Channel    string `json:"channel"`
	Source     string `json:"source"`
	Completion int    `json:"completion_percentage"`
}

func (s *Service) publishTurnEvent(turn domain.Turn, reply domain.Reply) {
	data, err := json.Marshal(turnEvent{
		TenantID:   turn.TenantID,
		ContactID:  turn.ContactID,
		Channel:    string(turn.Channel),
		Source:     string(reply.Source),
		Completion: reply.Completion,
	})
	if err != nil {
		return
	}
	if err := s.mq.Publish(subjectTurnCompleted, data); err != nil {
		s.log.Warn("failed to publish turn event", zap.Error(err))
	}
}
