package email

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESMailer_Send(t *testing.T) {
	client := &fakeSES{}
	m := newSESMailer(client, MailerConfig{FromAddress: "noreply@chipin.test", FromName: "ChipIn"}, testLogger)

	err := m.Send(context.Background(), "bob@example.com", "Join us", "<p>hi</p>", "")
	require.NoError(t, err)

	require.NotNil(t, client.input)
	assert.Equal(t, "ChipIn <noreply@chipin.test>", aws.ToString(client.input.Source))
	assert.Equal(t, []string{"bob@example.com"}, client.input.Destination.ToAddresses)
	assert.Equal(t, "Join us", aws.ToString(client.input.Message.Subject.Data))
	require.NotNil(t, client.input.Message.Body.Html)
	assert.Nil(t, client.input.Message.Body.Text)
}

func TestSESMailer_SendError(t *testing.T) {
	m := newSESMailer(&fakeSES{err: errors.New("throttled")}, MailerConfig{FromAddress: "noreply@chipin.test"}, testLogger)
	err := m.Send(context.Background(), "bob@example.com", "s", "", "t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestNewMailer(t *testing.T) {
	tests := []struct {
		name     string
		config   MailerConfig
		wantNoop bool
		wantErr  bool
	}{
		{name: "noop", config: MailerConfig{Provider: ProviderNoop}, wantNoop: true},
		{name: "empty provider", config: MailerConfig{}, wantNoop: true},
		{name: "unknown provider", config: MailerConfig{Provider: "carrier-pigeon"}, wantNoop: true},
		{name: "ses without from address", config: MailerConfig{Provider: ProviderSES}, wantErr: true},
		{name: "ses", config: MailerConfig{Provider: ProviderSES, FromAddress: "a@b.c", SES: SESConfig{Region: "eu-west-1"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMailer(tt.config, testLogger)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			_, isNoop := m.(*noopMailer)
			assert.Equal(t, tt.wantNoop, isNoop)
		})
	}
}
