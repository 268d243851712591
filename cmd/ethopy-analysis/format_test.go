package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ef-lab/ethopy-analysis/internal/query"
)

func TestFormatResponseJSON(t *testing.T) {
	resp := &AnimalsResponseCLI{
		Animals: []query.Animal{
			{AnimalID: 7, SessionCount: 2, FirstSession: "2024-03-11 10:00:00", LastSession: "2024-03-12 10:00:00"},
		},
		TotalCount: 1,
	}

	output, err := FormatResponse(resp, FormatJSON)
	if err != nil {
		t.Fatalf("FormatResponse failed: %v", err)
	}

	var decoded AnimalsResponseCLI
	if err := json.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.TotalCount != 1 || decoded.Animals[0].AnimalID != 7 {
		t.Errorf("unexpected decoded response: %+v", decoded)
	}
}

func TestFormatResponseHuman(t *testing.T) {
	tests := []struct {
		name string
		resp interface{}
		want []string
	}{
		{
			name: "animals",
			resp: &AnimalsResponseCLI{
				Animals:    []query.Animal{{AnimalID: 7, SessionCount: 3}},
				TotalCount: 1,
			},
			want: []string{"Found 1 animals", "7: 3 sessions"},
		},
		{
			name: "performance",
			resp: &PerformanceResponseCLI{AnimalID: 7, Session: 1, Performance: 0.667},
			want: []string{"animal 7 session 1", "Performance: 0.667"},
		},
		{
			name: "setup",
			resp: &SetupResponseCLI{Setup: "rig1", AnimalID: 7, Session: 2, Status: "running"},
			want: []string{"Setup: rig1", "Animal: 7", "Status: running"},
		},
		{
			name: "doctor unhealthy",
			resp: &DoctorResponseCLI{
				Healthy: false,
				Checks:  []DoctorCheckCLI{{Name: "database", Status: "fail", Message: "no such file"}},
			},
			want: []string{"Issues found", "database: no such file"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := FormatResponse(tt.resp, FormatHuman)
			if err != nil {
				t.Fatalf("FormatResponse failed: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(output, want) {
					t.Errorf("output missing %q:\n%s", want, output)
				}
			}
		})
	}
}

func TestFormatResponseUnknownFormat(t *testing.T) {
	if _, err := FormatResponse(&AnimalsResponseCLI{}, OutputFormat("xml")); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestParseIntList(t *testing.T) {
	tests := []struct {
		input   string
		want    []int
		wantErr bool
	}{
		{"", nil, false},
		{"1", []int{1}, false},
		{"1,2,3", []int{1, 2, 3}, false},
		{" 1 , 2 ", []int{1, 2}, false},
		{"1,x", nil, true},
	}

	for _, tt := range tests {
		got, err := parseIntList(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseIntList(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseIntList(%q) failed: %v", tt.input, err)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("parseIntList(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseIntList(%q) = %v, want %v", tt.input, got, tt.want)
				break
			}
		}
	}
}
