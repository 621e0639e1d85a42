package ledger

import "testing"

func TestLedgerTotals(t *testing.T) {
	l := New()
	if got := l.Summary()[KindLease]; got != 0 {
		t.Fatalf("expected empty lease total, got %v", got)
	}
	l.Charge(KindLease, 0, "LEASE-0-0", 70000)
	l.Charge(KindLease, 0, "LEASE-0-1", 70000)
	l.Charge(KindLease, 3, "LEASE-3-0", 70000)
	l.Charge("buy", 3, "M9", 1000)

	if l.Total(KindLease) != 210000 {
		t.Fatalf("unexpected lease total %v", l.Total(KindLease))
	}
	if l.Count(KindLease) != 3 {
		t.Fatalf("unexpected lease count %d", l.Count(KindLease))
	}
	s := l.Summary()
	if s["buy"] != 1000 || s[KindLease] != 210000 {
		t.Fatalf("unexpected summary %v", s)
	}
	if got := l.WeekTotals("buy"); len(got) != 1 || got[0].Week != 3 {
		t.Fatalf("unexpected buy totals %+v", got)
	}
}

func TestWeekTotals(t *testing.T) {
	l := New()
	l.Charge(KindLease, 5, "a", 1)
	l.Charge(KindLease, 2, "b", 1)
	l.Charge(KindLease, 5, "c", 1)
	wt := l.WeekTotals(KindLease)
	if len(wt) != 2 || wt[0].Week != 2 || wt[1].Amount != 2 {
		t.Fatalf("unexpected week totals %+v", wt)
	}
}
