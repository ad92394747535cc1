package risk

import "testing"

func TestClassifyMatchesRussianKeywords(t *testing.T) {
	verdict := Classify("я больше не хочу жить, хочу умереть", "ru")
	if !verdict.HighRisk {
		t.Fatal("expected high risk verdict for russian keyword")
	}
}

func TestClassifyMatchesEnglishKeywordCaseInsensitive(t *testing.T) {
	verdict := Classify("I Want To DIE", "en")
	if !verdict.HighRisk {
		t.Fatal("expected high risk verdict regardless of case")
	}
}

func TestClassifyUnknownLanguageScansAllSets(t *testing.T) {
	if !Classify("думаю про суицид", "").HighRisk {
		t.Fatal("expected russian keyword to match without language hint")
	}
	if !Classify("thinking about suicide", "de").HighRisk {
		t.Fatal("expected english keyword to match for unconfigured language")
	}
}

func TestClassifyNeutralText(t *testing.T) {
	for _, text := range []string{
		"сегодня был тяжёлый день на учёбе",
		"I feel a bit tired today",
	} {
		if Classify(text, "").HighRisk {
			t.Fatalf("unexpected high risk verdict for %q", text)
		}
	}
}

func TestClassifyEmptyText(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		if Classify(text, "ru").HighRisk {
			t.Fatalf("empty text must never be high risk, input %q", text)
		}
	}
}
