package binary

import "testing"

func TestClassifyDetectsNUL(t *testing.T) {
	d := NewDetector(PolicyBinary)
	if d.Classify([]byte("abc\x00def"), 0, nil); !d.IsBinary() {
		t.Fatalf("expected NUL to classify as binary")
	}
}

func TestClassifyIsStickyAfterFirstCall(t *testing.T) {
	d := NewDetector(PolicyBinary)
	d.Classify([]byte("abc\x00def"), 0, nil)
	if got := d.Classify([]byte("no nul here"), 0, nil); !got {
		t.Fatalf("expected cached binary=true to survive a clean second window")
	}
}

func TestPolicyTextNeverClassifiesBinary(t *testing.T) {
	d := NewDetector(PolicyText)
	if d.Classify([]byte("abc\x00def"), 0, nil) {
		t.Fatalf("PolicyText must never classify as binary")
	}
	if d.CheckEncoding([]byte{0xff, 0xfe}) {
		t.Fatalf("PolicyText must never flag encoding errors")
	}
}

type stubProber struct {
	has bool
	ok  bool
}

func (s stubProber) HasHoleAhead(int64) (bool, bool) { return s.has, s.ok }

func TestClassifyConsultsHoleProberWhenNoNULAndMoreUnread(t *testing.T) {
	d := NewDetector(PolicyBinary)
	window := []byte("clean")
	if d.Classify(window, 1<<20, stubProber{has: true, ok: true}); !d.IsBinary() {
		t.Fatalf("expected a reported hole ahead to classify as binary")
	}
}

func TestClassifyIgnoresHoleProberWhenFullyRead(t *testing.T) {
	d := NewDetector(PolicyBinary)
	window := []byte("clean")
	if d.Classify(window, int64(len(window)), stubProber{has: true, ok: true}); d.IsBinary() {
		t.Fatalf("did not expect binary classification once the whole file has been read")
	}
}

func TestOutcomeByPolicy(t *testing.T) {
	cases := []struct {
		policy             Policy
		wantDone, wantQuiet bool
	}{
		{PolicyBinary, true, true},
		{PolicyText, false, false},
		{PolicyWithoutMatch, true, true},
	}
	for _, c := range cases {
		d := NewDetector(c.policy)
		done, quiet := d.Outcome()
		if done != c.wantDone || quiet != c.wantQuiet {
			t.Errorf("policy %v: got done=%v quiet=%v, want %v,%v", c.policy, done, quiet, c.wantDone, c.wantQuiet)
		}
	}
}

func TestAbandonOnlyUnderWithoutMatchPolicy(t *testing.T) {
	d := NewDetector(PolicyWithoutMatch)
	d.Classify([]byte("\x00"), 0, nil)
	if !d.Abandon() {
		t.Errorf("expected Abandon under PolicyWithoutMatch once binary")
	}

	d2 := NewDetector(PolicyBinary)
	d2.Classify([]byte("\x00"), 0, nil)
	if d2.Abandon() {
		t.Errorf("did not expect Abandon under PolicyBinary")
	}
}

func TestCheckEncodingFlagsInvalidUTF8(t *testing.T) {
	d := NewDetector(PolicyBinary)
	if !d.CheckEncoding([]byte{0xff, 0xfe, 0x00, 0x01}) {
		t.Fatalf("expected invalid UTF-8 to be flagged")
	}
	if !d.EncodingErrorSeen() {
		t.Fatalf("expected EncodingErrorSeen to stick")
	}
}

func TestCheckEncodingSkippedOnceAlreadyBinary(t *testing.T) {
	d := NewDetector(PolicyBinary)
	d.Classify([]byte("\x00"), 0, nil)
	if d.CheckEncoding([]byte{0xff, 0xfe}) {
		t.Fatalf("encoding probe should be skipped once NUL already classified the file binary")
	}
}
