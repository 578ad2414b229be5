package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateShare(t *testing.T) {
	tests := []struct {
		name         string
		total        string
		eventMembers int
		groupMembers int
		want         string
	}{
		{"no participants falls back to group size", "100", 0, 4, "25.00"},
		{"repeating fraction rounds down", "10", 3, 0, "3.33"},
		{"participants take precedence over group size", "90", 3, 10, "30.00"},
		{"empty group divides by one", "42.50", 0, 0, "42.50"},
		{"half rounds to even below", "0.25", 2, 0, "0.12"},
		{"half rounds to even above", "0.75", 2, 0, "0.38"},
		{"zero total", "0", 5, 5, "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateShare(decimal.RequireFromString(tt.total), tt.eventMembers, tt.groupMembers)
			assert.Equal(t, tt.want, FormatAmount(got))
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"12.50", "12.50"},
		{" 7 ", "7.00"},
		{"", "0.00"},
		{"lots", "0.00"},
		{"12.345", "12.35"},
		{"99999999.99", "99999999.99"},
		{"1e9", "0.00"},
		{"-1e9", "0.00"},
		{"1e40000000", "0.00"},
		{"1e-40000000", "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(ParseAmount(tt.raw)))
		})
	}
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr error
	}{
		{raw: "150", want: "150.00"},
		{raw: "-20.5", want: "-20.50"},
		{raw: "0e-99999", want: "0.00"},
		{raw: "99999999.994", want: "99999999.99"},
		{raw: "99999999.995", wantErr: ErrAmountOutOfRange},
		{raw: "100000000", wantErr: ErrAmountOutOfRange},
		{raw: "1e9", wantErr: ErrAmountOutOfRange},
		{raw: "-1e9", wantErr: ErrAmountOutOfRange},
		{raw: "1e40000000", wantErr: ErrAmountOutOfRange},
		{raw: "1e-40000000", wantErr: ErrAmountOutOfRange},
		{raw: "lots", wantErr: ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			done := make(chan struct{})
			var got decimal.Decimal
			var err error
			go func() {
				defer close(done)
				got, err = ParseMoney(tt.raw)
			}()
			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatalf("ParseMoney(%q) did not return within a second", tt.raw)
			}

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, FormatAmount(got))
		})
	}
}

func TestEvaluateStatus(t *testing.T) {
	share := decimal.RequireFromString("25.00")
	d := decimal.RequireFromString

	tests := []struct {
		name string
		caps []decimal.Decimal
		want EventStatus
	}{
		{"all caps cover share", []decimal.Decimal{d("25"), d("100")}, EventActive},
		{"one cap short", []decimal.Decimal{d("100"), d("24.99")}, EventPending},
		{"missing cap counts as zero", []decimal.Decimal{d("100"), (&User{}).SpendingCap()}, EventPending},
		{"no members", nil, EventActive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateStatus(share, tt.caps)
			assert.Equal(t, tt.want, got)
			assert.NotEqual(t, EventCompleted, got)
		})
	}
}

func TestUser_SpendingCapAndDisplayName(t *testing.T) {
	var nilUser *User
	assert.True(t, nilUser.SpendingCap().IsZero())

	u := &User{Email: "ana@example.com"}
	assert.True(t, u.SpendingCap().IsZero())
	assert.Equal(t, "ana@example.com", u.DisplayName())

	u.MaxSpend = decimal.NewNullDecimal(decimal.RequireFromString("40"))
	assert.Equal(t, "40.00", FormatAmount(u.SpendingCap()))

	u.Username = "ana"
	assert.Equal(t, "ana", u.DisplayName())
	u.Nickname = "Annie"
	assert.Equal(t, "Annie", u.DisplayName())
}

func TestInvite_ExpiryAndAcceptPath(t *testing.T) {
	created := mustTime(t, "2026-01-01T10:00:00Z")
	inv := NewInvite("g1", "u1", "u2", "tok", created)

	assert.Equal(t, created.Add(InviteTTL), inv.ExpiresAt)
	assert.False(t, inv.Expired(created.Add(InviteTTL-1)))
	assert.True(t, inv.Expired(created.Add(InviteTTL)))
	assert.Equal(t, "/groups/g1/invites/accept?user_id=u2&token=tok", inv.AcceptPath())
}

func TestOutcome_Failed(t *testing.T) {
	var none *Outcome
	assert.False(t, none.Failed())
	assert.False(t, Success(HomePath, "ok").Failed())
	assert.True(t, Failure(GroupPath("g1"), "nope %s", "x").Failed())
	assert.Equal(t, "nope x", Failure(GroupPath("g1"), "nope %s", "x").Message)
	assert.Equal(t, "/groups/g1", Failure(GroupPath("g1"), "nope").Redirect)
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	tm, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return tm
}
