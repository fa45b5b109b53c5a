package notification

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"MyPlants/internal/config"
	"MyPlants/internal/mail"
	"MyPlants/internal/mail/templates"
	"MyPlants/internal/plant"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ChannelResolver returns the channel a tenant's reminders go out on.
type ChannelResolver interface {
	Resolve(ctx context.Context, tenantID string) (mail.Channel, error)
}

// NotifiedMarker records that a reminder went out. *plant.Repository implements it.
type NotifiedMarker interface {
	MarkNotified(ctx context.Context, id primitive.ObjectID, at time.Time) error
}

// LinkBuilder produces confirmation links. *Links implements it.
type LinkBuilder interface {
	ConfirmURL(plantID string) (string, error)
}

// Result tallies one dispatch.
type Result struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// Dispatcher delivers reminders for due plants. Tenants are served in parallel,
// plants of one tenant one after another on the tenant's channel.
type Dispatcher struct {
	resolver    ChannelResolver
	plants      NotifiedMarker
	links       LinkBuilder
	metrics     *Metrics
	log         *zap.Logger
	now         func() time.Time
	sendTimeout time.Duration
	concurrency int
	sendRate    float64
}

func NewDispatcher(resolver ChannelResolver, plants NotifiedMarker, links LinkBuilder, metrics *Metrics, cfg *config.Config, log *zap.Logger) *Dispatcher {
	concurrency := cfg.Notify.TenantConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &Dispatcher{
		resolver:    resolver,
		plants:      plants,
		links:       links,
		metrics:     metrics,
		log:         log.Named("dispatcher"),
		now:         time.Now,
		sendTimeout: cfg.Notify.SendTimeout,
		concurrency: concurrency,
		sendRate:    cfg.Notify.SendRate,
	}
}

// Dispatch sends one reminder per due plant. A failure is confined to its plant,
// or to its tenant when the channel cannot be resolved; it never aborts the rest.
func (d *Dispatcher) Dispatch(ctx context.Context, groups DueGroups) Result {
	var sent, failed atomic.Int64

	var g errgroup.Group
	g.SetLimit(d.concurrency)
	for _, tenant := range groups.Tenants() {
		tenant, plants := tenant, groups[tenant]
		g.Go(func() error {
			s, f := d.dispatchTenant(ctx, tenant, plants)
			sent.Add(int64(s))
			failed.Add(int64(f))
			return nil
		})
	}
	_ = g.Wait()

	return Result{Sent: int(sent.Load()), Failed: int(failed.Load())}
}

func (d *Dispatcher) dispatchTenant(ctx context.Context, tenant string, plants []*plant.Plant) (sent, failed int) {
	log := d.log.With(zap.String("owner_id", tenant))

	ch, err := d.resolver.Resolve(ctx, tenant)
	if err != nil {
		log.Error("resolve mail channel failed", zap.Int("plants", len(plants)), zap.Error(err))
		d.metrics.observeFailed(len(plants))
		return 0, len(plants)
	}

	limiter := d.newLimiter()
	for i, p := range plants {
		if err := limiter.Wait(ctx); err != nil {
			rest := len(plants) - i
			log.Warn("dispatch interrupted", zap.Int("unsent", rest), zap.Error(err))
			d.metrics.observeFailed(rest)
			return sent, failed + rest
		}
		if err := d.notify(ctx, ch, p); err != nil {
			log.Error("send reminder failed",
				zap.String("plant_id", p.ID.Hex()),
				zap.String("to", p.NotifyEmail),
				zap.Error(err))
			d.metrics.observeFailed(1)
			failed++
			continue
		}
		d.metrics.observeSent()
		sent++
	}
	return sent, failed
}

// notify sends the reminder and then sets the plant's notified flag. A flag that
// cannot be written is logged and the reminder still counts as sent; the plant
// may then be reminded again next cycle.
func (d *Dispatcher) notify(ctx context.Context, ch mail.Channel, p *plant.Plant) error {
	link, err := d.links.ConfirmURL(p.ID.Hex())
	if err != nil {
		return err
	}
	subject, body, err := templates.Reminder(templates.WateringReminder{
		PlantName:    p.Name,
		IntervalDays: p.IntervalDays,
		ConfirmURL:   link,
	})
	if err != nil {
		return err
	}

	if err := d.send(ctx, ch, mail.Message{To: p.NotifyEmail, Subject: subject, HTML: body}); err != nil {
		return err
	}

	if err := d.plants.MarkNotified(ctx, p.ID, d.now()); err != nil {
		if errors.Is(err, plant.ErrNotFound) {
			d.log.Debug("plant removed during dispatch", zap.String("plant_id", p.ID.Hex()))
		} else {
			d.log.Error("reminder sent but not recorded", zap.String("plant_id", p.ID.Hex()), zap.Error(err))
		}
	}
	p.NotificationSent = true
	return nil
}

func (d *Dispatcher) send(ctx context.Context, ch mail.Channel, msg mail.Message) error {
	if d.sendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.sendTimeout)
		defer cancel()
	}
	if err := ch.Send(ctx, msg); err != nil {
		return fmt.Errorf("send to %s: %w", msg.To, err)
	}
	return nil
}

func (d *Dispatcher) newLimiter() *rate.Limiter {
	if d.sendRate <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(d.sendRate), 1)
}
