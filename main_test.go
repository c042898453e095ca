package main

import "testing"

func TestParseExportRange(t *testing.T) {
	start, end, err := parseExportRange(" 100 : 2000 ")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if start != 100 || end != 2000 {
		t.Errorf("parsed %d:%d, want 100:2000", start, end)
	}
	for _, bad := range []string{"100", "a:b", "1:2:3", ""} {
		if _, _, err := parseExportRange(bad); err == nil {
			t.Errorf("expected an error for %q", bad)
		}
	}
}

func TestParseExportSize(t *testing.T) {
	w, h, err := parseExportSize("640x360")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if w != 640 || h != 360 {
		t.Errorf("parsed %dx%d, want 640x360", w, h)
	}
	for _, bad := range []string{"640", "0x10", "-1x5", "ax b"} {
		if _, _, err := parseExportSize(bad); err == nil {
			t.Errorf("expected an error for %q", bad)
		}
	}
}
