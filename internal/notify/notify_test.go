package notify

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/botdb-provisioner/internal/provisioner"
)

type fakeSender struct {
	sent []*bot.SendMessageParams
	err  error
}

func (f *fakeSender) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	f.sent = append(f.sent, params)
	if f.err != nil {
		return nil, f.err
	}
	return &models.Message{ID: len(f.sent)}, nil
}

func TestMessage(t *testing.T) {
	t.Parallel()

	spec := provisioner.AccountSpec{Database: "shopdb", Username: "svc1", Password: "s3cret"}
	createErr := fmt.Errorf("%w: duplicate", provisioner.ErrCreateUser)

	testCases := []struct {
		name     string
		outcome  provisioner.Outcome
		err      error
		expected string
	}{
		{
			name:     "created",
			outcome:  provisioner.Created,
			expected: "✅ Created user svc1 on db shopdb",
		},
		{
			name:     "already exists",
			outcome:  provisioner.AlreadyExists,
			expected: "ℹ️ User svc1 already exists on db shopdb",
		},
		{
			name:     "failure",
			err:      createErr,
			expected: "❌ Provisioning user svc1 on db shopdb failed at create_user: create user rejected: duplicate",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			msg := Message(spec, tc.outcome, tc.err)
			assert.Equal(t, tc.expected, msg)
			assert.NotContains(t, msg, spec.Password)
		})
	}
}

func TestTelegramNotify(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	n := newTelegram(sender, 42, nil)

	n.Notify(context.Background(), provisioner.AccountSpec{Database: "botdb", Username: "botuser"}, provisioner.Created, nil)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, int64(42), sender.sent[0].ChatID)
	assert.Equal(t, "✅ Created user botuser on db botdb", sender.sent[0].Text)
}

func TestTelegramNotify_SendFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{err: errors.New("telegram down")}
	n := newTelegram(sender, 42, nil)

	assert.NotPanics(t, func() {
		n.Notify(context.Background(), provisioner.AccountSpec{Database: "botdb", Username: "botuser"}, provisioner.AlreadyExists, nil)
	})
	assert.Len(t, sender.sent, 1)
}

func TestNewTelegram_EmptyToken(t *testing.T) {
	t.Parallel()

	n, err := NewTelegram("", 42, nil)
	require.Error(t, err)
	assert.Nil(t, n)
}

func TestNop(t *testing.T) {
	t.Parallel()

	var n Notifier = Nop{}
	assert.NotPanics(t, func() {
		n.Notify(context.Background(), provisioner.AccountSpec{}, provisioner.Created, nil)
	})
}
