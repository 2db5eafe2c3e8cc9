package services

import "testing"

func TestOrderedStages(t *testing.T) {
	stages := OrderedStages()
	if len(stages) != 4 {
		t.Fatalf("expected 4 stages, got %d", len(stages))
	}
	if stages[len(stages)-1] != StageFinalApproval {
		t.Errorf("final approval must be the last stage, got %s", stages[len(stages)-1])
	}

	// Mutating the returned slice must not corrupt the registry.
	stages[0] = Stage("tampered")
	if OrderedStages()[0] != StageDocumentVerification {
		t.Error("OrderedStages returned an aliased slice")
	}
}

func TestIsParallel(t *testing.T) {
	for _, stage := range []Stage{StageDocumentVerification, StageFinancialReview, StageAcademicReview} {
		if !IsParallel(stage) {
			t.Errorf("%s should be parallel-eligible", stage)
		}
	}
	if IsParallel(StageFinalApproval) {
		t.Error("final_approval must be gated, not parallel")
	}
}

func TestPrerequisitesFor(t *testing.T) {
	for _, stage := range []Stage{StageDocumentVerification, StageFinancialReview, StageAcademicReview} {
		if got := PrerequisitesFor(stage); len(got) != 0 {
			t.Errorf("parallel stage %s should have no prerequisites, got %v", stage, got)
		}
	}

	prereqs := PrerequisitesFor(StageFinalApproval)
	if len(prereqs) != 3 {
		t.Fatalf("final_approval should require 3 stages, got %v", prereqs)
	}
	want := map[Stage]bool{
		StageDocumentVerification: true,
		StageFinancialReview:      true,
		StageAcademicReview:       true,
	}
	for _, stage := range prereqs {
		if !want[stage] {
			t.Errorf("unexpected prerequisite %s", stage)
		}
	}
}

func TestParseStage(t *testing.T) {
	cases := []struct {
		in      string
		want    Stage
		wantErr bool
	}{
		{"financial_review", StageFinancialReview, false},
		{"  Final_Approval ", StageFinalApproval, false},
		{"ACADEMIC_REVIEW", StageAcademicReview, false},
		{"interview", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := ParseStage(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseStage(%q) expected error, got %s", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseStage(%q) unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseStage(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}
