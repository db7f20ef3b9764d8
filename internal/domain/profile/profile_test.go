package profile

import (
	"testing"
	"time"

	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesize(t *testing.T) {
	now := time.Date(2026, 3, 2, 15, 4, 5, 0, time.FixedZone("WIB", 7*3600))

	tests := []struct {
		name     string
		identity user.Identity
		wantName string
	}{
		{name: "uses identity name", identity: user.Identity{UserID: "g-1", Name: "  Ana Putri ", Email: "ana@example.com"}, wantName: "Ana Putri"},
		{name: "falls back to email local part", identity: user.Identity{UserID: "g-2", Email: "budi@example.com"}, wantName: "budi"},
		{name: "falls back to placeholder", identity: user.Identity{UserID: "g-3"}, wantName: "User"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Synthesize(tt.identity, now)
			assert.Equal(t, tt.identity.UserID, p.ID)
			assert.Equal(t, tt.wantName, p.Name)
			require.NotNil(t, p.JoinDate)
			assert.Equal(t, "2026-03-02", p.JoinDate.Format("2006-01-02"))
		})
	}
}

func TestUpdateProfileRequest(t *testing.T) {
	blank := "   "
	assert.Error(t, (&UpdateProfileRequest{Name: &blank}).Validate())

	long := string(make([]byte, 33))
	assert.Error(t, (&UpdateProfileRequest{Phone: &long}).Validate())

	name := " Ana "
	phone := "+62 811"
	req := UpdateProfileRequest{Name: &name, Phone: &phone}
	require.NoError(t, req.Validate())

	dept := "Finance"
	p := Profile{Name: "old", Department: &dept}
	req.Apply(&p)
	assert.Equal(t, "Ana", p.Name)
	assert.Equal(t, &phone, p.Phone)
	assert.Equal(t, &dept, p.Department)
}
