package domain

import "testing"

func TestInferCategoryAndUrgency_FamilyCourtFromVenue(t *testing.T) {
	category, urgency := InferCategoryAndUrgency("İzmir 3. Aile Mahkemesi", "yarın saat 14:00 duruşma")

	if category != "Aile Hukuku" {
		t.Errorf("Expected 'Aile Hukuku', got '%s'", category)
	}
	if urgency != UrgencyNormal {
		t.Errorf("Expected normal urgency, got '%s'", urgency)
	}
}

func TestInferCategoryAndUrgency_CriminalAndUrgentFromMessage(t *testing.T) {
	category, urgency := InferCategoryAndUrgency("Ankara Adliyesi", "2. Asliye Ceza, bugün duruşma var")

	if category != "Ceza Hukuku" {
		t.Errorf("Expected 'Ceza Hukuku', got '%s'", category)
	}
	if urgency != UrgencyUrgent {
		t.Errorf("Expected urgent, got '%s'", urgency)
	}
}

func TestInferCategoryAndUrgency_VeryUrgent(t *testing.T) {
	_, urgency := InferCategoryAndUrgency("", "ÇOK ACİL tevkil lazım")

	if urgency != UrgencyVeryUrgent {
		t.Errorf("Expected very_urgent, got '%s'", urgency)
	}
}

func TestInferCategoryAndUrgency_Defaults(t *testing.T) {
	category, urgency := InferCategoryAndUrgency("Bakırköy Adliyesi", "dosya takibi")

	if category != DefaultCategory {
		t.Errorf("Expected '%s', got '%s'", DefaultCategory, category)
	}
	if urgency != UrgencyNormal {
		t.Errorf("Expected normal, got '%s'", urgency)
	}
}

func TestLooksLikeListing(t *testing.T) {
	cases := map[string]bool{
		"Ankara 2. Asliye Ceza Mahkemesinde yarın duruşma var":         true,
		"İzmir 3. Aile Mahkemesinde yarın saat 14:00 duruşma, 4000 TL": true,
		"Tamamdır":                  false,
		"merhaba nasılsınız bugün?": false,
		"mahkeme duruşma":           false, // too short
	}

	for text, want := range cases {
		if got := LooksLikeListing(text); got != want {
			t.Errorf("LooksLikeListing(%q) = %v, expected %v", text, got, want)
		}
	}
}

func TestParseIntent(t *testing.T) {
	if ParseIntent("Approve") != IntentApprove {
		t.Error("Expected approve")
	}
	if ParseIntent("correct") != IntentCorrection {
		t.Error("Expected 'correct' to alias correction")
	}
	if ParseIntent("maybe") != IntentUnknown {
		t.Error("Expected unknown for unrecognised label")
	}
}

func TestParseUrgencyLabel(t *testing.T) {
	if ParseUrgencyLabel("Çok Acil") != UrgencyVeryUrgent {
		t.Error("Expected very_urgent")
	}
	if ParseUrgencyLabel(" acil ") != UrgencyUrgent {
		t.Error("Expected urgent")
	}
	if ParseUrgencyLabel("") != UrgencyNormal {
		t.Error("Expected normal")
	}
}
