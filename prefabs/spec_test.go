package prefabs

import (
	"strings"
	"testing"
)

func TestLoadEmbeddedControllerSpecs(t *testing.T) {
	cases := []struct {
		file string
		kind string
	}{
		{"chase.yaml", "chase"},
		{"kamikaze.yaml", "kamikaze"},
		{"ranged.yaml", "ranged"},
		{"hybrid.yaml", "hybrid"},
		{"scripted.yaml", "scripted"},
	}

	for _, c := range cases {
		t.Run(c.file, func(t *testing.T) {
			spec, err := LoadControllerSpec(c.file)
			if err != nil {
				t.Fatalf("LoadControllerSpec(%s) failed: %v", c.file, err)
			}
			if spec.Kind != c.kind {
				t.Fatalf("expected kind %q, got %q", c.kind, spec.Kind)
			}
		})
	}
}

func TestChaseSpecFields(t *testing.T) {
	spec, err := LoadControllerSpec("chase.yaml")
	if err != nil {
		t.Fatalf("LoadControllerSpec failed: %v", err)
	}

	if spec.Name != "chaser" {
		t.Fatalf("expected name chaser, got %q", spec.Name)
	}
	if spec.AlertRange != 50 || spec.AttackRange != 10 {
		t.Fatalf("unexpected ranges: alert=%v attack=%v", spec.AlertRange, spec.AttackRange)
	}
	if !spec.AttacksEnabled {
		t.Fatalf("expected attacks enabled")
	}
}

func TestHybridSpecHasBand(t *testing.T) {
	spec, err := LoadControllerSpec("hybrid.yaml")
	if err != nil {
		t.Fatalf("LoadControllerSpec failed: %v", err)
	}
	if spec.RangedBand == nil {
		t.Fatalf("expected a ranged band")
	}
	if spec.RangedBand.Min != 20 || spec.RangedBand.Max != 60 {
		t.Fatalf("unexpected band [%v, %v)", spec.RangedBand.Min, spec.RangedBand.Max)
	}
}

func TestControllerSpecValidate(t *testing.T) {
	cases := []struct {
		name    string
		spec    ControllerSpec
		wantErr string
	}{
		{
			name:    "missing_name",
			spec:    ControllerSpec{Kind: "chase", AlertRange: 50},
			wantErr: "missing name",
		},
		{
			name:    "unknown_kind",
			spec:    ControllerSpec{Name: "x", Kind: "berserker"},
			wantErr: "unknown controller kind",
		},
		{
			name:    "zero_alert_range",
			spec:    ControllerSpec{Name: "x", Kind: "chase"},
			wantErr: "alert_range",
		},
		{
			name:    "ranged_without_band",
			spec:    ControllerSpec{Name: "x", Kind: "ranged", AlertRange: 90},
			wantErr: "ranged_band",
		},
		{
			name: "inverted_band",
			spec: ControllerSpec{
				Name:       "x",
				Kind:       "hybrid",
				AlertRange: 90,
				RangedBand: &RangedBandSpec{Min: 60, Max: 20},
			},
			wantErr: "ranged_band",
		},
		{
			name:    "scripted_without_script",
			spec:    ControllerSpec{Name: "x", Kind: "scripted"},
			wantErr: "script",
		},
		{
			name: "valid_chase",
			spec: ControllerSpec{Name: "x", Kind: "chase", AlertRange: 50},
		},
		{
			name: "valid_scripted",
			spec: ControllerSpec{Name: "x", Kind: "scripted", Script: "sentry.tengo"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.spec.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("expected valid spec, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoadScript(t *testing.T) {
	data, err := LoadScript("sentry.tengo")
	if err != nil {
		t.Fatalf("LoadScript failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("expected script content")
	}

	// Path prefixes are normalized the same way prefab paths are.
	viaPrefix, err := LoadScript("prefabs/scripts/sentry.tengo")
	if err != nil {
		t.Fatalf("LoadScript with prefix failed: %v", err)
	}
	if string(viaPrefix) != string(data) {
		t.Fatalf("prefix path returned different content")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("nope.yaml"); err == nil {
		t.Fatalf("expected error for missing prefab")
	}
	if _, err := LoadScript("nope.tengo"); err == nil {
		t.Fatalf("expected error for missing script")
	}
}
