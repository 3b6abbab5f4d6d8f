package reputation

import "testing"

func TestClassifyAsScam_MarkerInLabel(t *testing.T) {
	info := &LabelInfo{Labels: []string{"Phish / Hack"}}
	if !ClassifyAsScam(info, DefaultScamMarkers) {
		t.Error("expected phish label to classify as scam")
	}
}

func TestClassifyAsScam_MarkerInSlug(t *testing.T) {
	info := &LabelInfo{Slugs: []string{"ofac-sanctioned"}}
	if !ClassifyAsScam(info, DefaultScamMarkers) {
		t.Error("expected ofac slug to classify as scam")
	}
}

func TestClassifyAsScam_CaseInsensitive(t *testing.T) {
	info := &LabelInfo{Labels: []string{"EXPLOIT Contract"}}
	if !ClassifyAsScam(info, DefaultScamMarkers) {
		t.Error("expected uppercase label to classify as scam")
	}
}

func TestClassifyAsScam_BenignLabels(t *testing.T) {
	info := &LabelInfo{Labels: []string{"Exchange"}, Slugs: []string{"exchange", "hot-wallet"}}
	if ClassifyAsScam(info, DefaultScamMarkers) {
		t.Error("expected benign labels to not classify as scam")
	}
}

func TestClassifyAsScam_NilInfo(t *testing.T) {
	if ClassifyAsScam(nil, DefaultScamMarkers) {
		t.Error("expected nil info to not classify as scam")
	}
}

func TestClassifyAsScam_SubstringOvermatch(t *testing.T) {
	// Known limitation of the substring policy: "hackathon" contains
	// "hack" and is flagged. This is the accepted conservative behavior.
	info := &LabelInfo{Labels: []string{"ETHGlobal Hackathon Prize Pool"}}
	if !ClassifyAsScam(info, DefaultScamMarkers) {
		t.Error("expected substring policy to flag hackathon label")
	}
}
