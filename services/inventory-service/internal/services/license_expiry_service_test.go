package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/require"
)

type capturedDigest struct {
	recipients []string
	subject    string
	plain      string
	html       string
}

type fakeSender struct {
	sent []capturedDigest
	err  error
}

func (s *fakeSender) SendDigest(_ context.Context, recipients []string, subject, plain, htmlBody string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, capturedDigest{recipients, subject, plain, htmlBody})
	return nil
}

func TestLicenseExpiryNotifier(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	now := time.Date(2025, 1, 10, 7, 0, 0, 0, time.UTC)
	f.licenses.WithClock(func() time.Time { return now })
	sender := &fakeSender{}
	n := NewLicenseExpiryNotifier(f.licenses, sender, []string{"it@example.com"})

	count, err := n.Run(ctx)
	require.NoError(t, err)
	require.Zero(t, count)
	require.Empty(t, sender.sent, "nothing to report means no mail")

	f.license(t, "CAD <Pro>", now.Add(3*24*time.Hour))
	f.license(t, "Later", now.Add(60*24*time.Hour))

	count, err = n.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.Len(t, sender.sent, 1)
	d := sender.sent[0]
	require.Equal(t, []string{"it@example.com"}, d.recipients)
	require.Contains(t, d.subject, "1 software license(s) expiring within 30 days")
	require.Contains(t, d.plain, "CAD <Pro>")
	require.Contains(t, d.plain, "2025-01-13")
	require.Contains(t, d.html, "CAD &lt;Pro&gt;")
	require.NotContains(t, d.plain, "Later")
}

func TestLicenseExpiryNotifierSendFailure(t *testing.T) {
	f := newFixture(t)
	f.license(t, "Soon", time.Now().Add(time.Hour))
	n := NewLicenseExpiryNotifier(f.licenses, &fakeSender{err: errors.New("smtp down")}, nil)

	_, err := n.Run(context.Background())
	require.Error(t, err)
}

func TestLicenseExpiryNotifierSchedule(t *testing.T) {
	f := newFixture(t)
	n := NewLicenseExpiryNotifier(f.licenses, NewLogDigestSender(), nil)
	c := cron.New(cron.WithLocation(time.UTC))

	require.NoError(t, n.Schedule(c, "0 7 * * *"))
	require.Len(t, c.Entries(), 1)
	require.Error(t, n.Schedule(c, "not a cron spec"))
}
