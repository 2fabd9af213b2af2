package matcher

import "testing"

func TestRegexExecute(t *testing.T) {
	p, err := NewRegexCompiler().Compile([]string{"abc"}, Options{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	m, ok := p.Execute([]byte("xxabcxx"), -1)
	if !ok {
		t.Fatalf("expected match")
	}
	if m.Offset != 2 || m.Length != 3 {
		t.Errorf("got offset=%d length=%d, want 2,3", m.Offset, m.Length)
	}
}

func TestRegexIgnoreCase(t *testing.T) {
	p, err := NewRegexCompiler().Compile([]string{"abc"}, Options{IgnoreCase: true})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if _, ok := p.Execute([]byte("ABC"), -1); !ok {
		t.Errorf("expected case-insensitive match")
	}
}

func TestRegexWordMatch(t *testing.T) {
	p, err := NewRegexCompiler().Compile([]string{"cat"}, Options{WordMatch: true})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if _, ok := p.Execute([]byte("concatenate"), -1); ok {
		t.Errorf("did not expect a match inside a larger word")
	}
	if _, ok := p.Execute([]byte("the cat sat"), -1); !ok {
		t.Errorf("expected a word-bounded match")
	}
}

func TestLiteralExecute(t *testing.T) {
	p, err := NewFixedCompiler().Compile([]string{"a.b"}, Options{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if _, ok := p.Execute([]byte("axb"), -1); ok {
		t.Errorf("literal pattern should not treat '.' as a wildcard")
	}
	m, ok := p.Execute([]byte("xa.bx"), -1)
	if !ok || m.Offset != 1 || m.Length != 3 {
		t.Errorf("got %+v ok=%v, want offset=1 length=3", m, ok)
	}
}

func TestLiteralMultiNeedlePicksEarliest(t *testing.T) {
	p, err := NewFixedCompiler().Compile([]string{"world", "hello"}, Options{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	m, ok := p.Execute([]byte("say hello world"), -1)
	if !ok || m.Offset != 4 {
		t.Errorf("got %+v ok=%v, want offset=4 (hello)", m, ok)
	}
}

func TestClonesAreIndependentlyUsable(t *testing.T) {
	p, err := NewRegexCompiler().Compile([]string{"x"}, Options{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	clone := p.Clone()
	if _, ok := clone.Execute([]byte("x"), -1); !ok {
		t.Errorf("clone should match like the original")
	}
}

func TestCursorAdvancesSearch(t *testing.T) {
	p, err := NewFixedCompiler().Compile([]string{"a"}, Options{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	buf := []byte("a-a-a")
	m1, _ := p.Execute(buf, -1)
	m2, ok := p.Execute(buf, m1.Offset+m1.Length)
	if !ok || m2.Offset != 2 {
		t.Errorf("got %+v ok=%v, want offset=2", m2, ok)
	}
}
