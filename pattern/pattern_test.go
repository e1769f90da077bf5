package pattern

import "testing"

func TestCompileDigitCount(t *testing.T) {
	re, err := Compile("3 digits")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !Matches(re, "123") {
		t.Fatalf("expected %q to match 3 digits", "123")
	}
	if Matches(re, "12") {
		t.Fatalf("did not expect %q to match 3 digits", "12")
	}
}

func TestCompileBetweenLetters(t *testing.T) {
	re, err := Compile("between 2 and 4 letters")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !re.MatchString("abc") {
		t.Fatalf("expected abc to match")
	}
}

func TestCompileNamedPlaceholders(t *testing.T) {
	re, err := Compile("{month}/{day}/{year}")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	caps, ok := Find(re, "07/04/2026")
	if !ok {
		t.Fatalf("expected a match")
	}
	if caps.Groups["month"] != "07" || caps.Groups["day"] != "04" || caps.Groups["year"] != "2026" {
		t.Fatalf("unexpected captures: %+v", caps.Groups)
	}
}

func TestCompileAlternation(t *testing.T) {
	re, err := Compile(`"cat" or "dog"`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !re.MatchString("dog") || !re.MatchString("cat") {
		t.Fatalf("expected both branches to match")
	}
	if re.MatchString("bird") {
		t.Fatalf("did not expect bird to match")
	}
}

func TestCompileBeginsEndsWith(t *testing.T) {
	re, err := Compile(`begins with "Hello"`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !re.MatchString("Hello, world") {
		t.Fatalf("expected prefix match")
	}
	if re.MatchString("Say Hello") {
		t.Fatalf("did not expect a match without the prefix")
	}
}
