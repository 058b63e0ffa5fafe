package notifier

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mymmrac/telego"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"auction_house/internal/domain/entity"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []*telego.SendMessageParams
}

func (f *fakeSender) SendMessage(_ context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sent = append(f.sent, params)

	return &telego.Message{}, nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.sent)
}

type staticRap []entity.RapEntry

func (s staticRap) Rap(context.Context) ([]entity.RapEntry, error) {
	return s, nil
}

func sale(price int64) entity.ClaimRecord {
	return entity.ClaimRecord{
		ID:        "0123456789abcdef0123456789abcdef",
		SellerID:  5,
		Price:     decimal.NewFromInt(price),
		ItemID:    "sword",
		ItemClass: "weapon",
	}
}

func TestEvaluate(t *testing.T) {
	raps := []entity.RapEntry{
		{ItemClass: "weapon", ItemID: "sword", AveragePrice: decimal.NewFromInt(100)},
		{ItemClass: "weapon", ItemID: "free", AveragePrice: decimal.Zero},
	}

	testCases := []struct {
		name  string
		sale  entity.ClaimRecord
		alert bool
	}{
		{name: "far below", sale: sale(40), alert: true},
		{name: "exactly at threshold", sale: sale(50), alert: true},
		{name: "close to rap", sale: sale(90)},
		{name: "above rap", sale: sale(150)},
		{name: "no rap", sale: entity.ClaimRecord{ItemClass: "armor", ItemID: "helm", Price: decimal.NewFromInt(1)}},
		{name: "zero rap", sale: entity.ClaimRecord{ItemClass: "weapon", ItemID: "free", Price: decimal.Zero}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			alert, ok := Evaluate(tc.sale, raps, decimal.NewFromFloat(0.5))
			rq.Equal(tc.alert, ok)

			if ok {
				rq.True(alert.Rap.Equal(decimal.NewFromInt(100)))
			}
		})
	}
}

func TestTelegramBot_Run(t *testing.T) {
	rq := require.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sender := &fakeSender{}
	raps := staticRap{{ItemClass: "weapon", ItemID: "sword", AveragePrice: decimal.NewFromInt(100)}}
	bot := newTelegramBot(sender, 42, raps, 0.5)

	sales := make(chan entity.ClaimRecord, 2)
	sales <- sale(90)
	sales <- sale(10)
	close(sales)

	rq.NoError(bot.Run(ctx, sales))
	rq.Equal(1, sender.count())
	rq.Equal(int64(42), sender.sent[0].ChatID.ID)
	rq.Contains(sender.sent[0].Text, "weapon / sword")
	rq.Contains(sender.sent[0].Text, "90.0%")

	done := make(chan error, 1)
	go func() { done <- bot.Run(ctx, make(chan entity.ClaimRecord)) }()

	cancel()

	select {
	case err := <-done:
		rq.ErrorIs(err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("notifier did not stop")
	}
}
