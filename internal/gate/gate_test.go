package gate

import (
	"context"
	"errors"
	"testing"
)

type fakeOracle struct {
	status MemberStatus
	err    error
	calls  int
}

func (f *fakeOracle) MemberStatus(context.Context, int64) (MemberStatus, error) {
	f.calls++
	return f.status, f.err
}

func TestAllowedStatuses(t *testing.T) {
	cases := []struct {
		status MemberStatus
		want   bool
	}{
		{StatusCreator, true},
		{StatusAdministrator, true},
		{StatusMember, true},
		{StatusRestricted, false},
		{StatusLeft, false},
		{StatusKicked, false},
		{StatusUnknown, false},
	}
	for _, tc := range cases {
		g := New(&fakeOracle{status: tc.status})
		if got := g.Allowed(context.Background(), 1); got != tc.want {
			t.Errorf("Allowed(%s) = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestOracleErrorIndistinguishableFromLeft(t *testing.T) {
	left := New(&fakeOracle{status: StatusLeft})
	broken := New(&fakeOracle{err: errors.New("oracle down")})

	gotLeft := left.Allowed(context.Background(), 1)
	gotErr := broken.Allowed(context.Background(), 1)
	if gotLeft != gotErr {
		t.Fatalf("left=%v err=%v, want identical denied outcome", gotLeft, gotErr)
	}
	if gotLeft {
		t.Fatal("left member must be denied")
	}
}

func TestEveryCheckQueriesOracleFresh(t *testing.T) {
	oracle := &fakeOracle{status: StatusLeft}
	g := New(oracle)

	g.Allowed(context.Background(), 1)
	oracle.status = StatusMember
	if !g.Allowed(context.Background(), 1) {
		t.Fatal("second check must see the fresh oracle verdict")
	}
	if oracle.calls != 2 {
		t.Fatalf("oracle calls = %d, want 2 (no caching)", oracle.calls)
	}
}
