package services

import (
	"fmt"
	"strings"
)

// Stage identifies one phase of the committee review.
type Stage string

const (
	StageDocumentVerification Stage = "document_verification"
	StageFinancialReview      Stage = "financial_review"
	StageAcademicReview       Stage = "academic_review"
	StageFinalApproval        Stage = "final_approval"
)

// The first three stages inspect disjoint evidence and may be worked
// concurrently by different reviewers. Final approval gates on all of them.
var orderedStages = []Stage{
	StageDocumentVerification,
	StageFinancialReview,
	StageAcademicReview,
	StageFinalApproval,
}

var parallelStages = map[Stage]bool{
	StageDocumentVerification: true,
	StageFinancialReview:      true,
	StageAcademicReview:       true,
}

// OrderedStages returns every review stage in display/gating order.
func OrderedStages() []Stage {
	out := make([]Stage, len(orderedStages))
	copy(out, orderedStages)
	return out
}

// IsParallel reports whether the stage can be decided independently of the
// other non-gated stages.
func IsParallel(stage Stage) bool {
	return parallelStages[stage]
}

// PrerequisitesFor returns the stages that must hold an approved decision
// before the given stage becomes actionable. Empty for parallel stages.
func PrerequisitesFor(stage Stage) []Stage {
	if stage != StageFinalApproval {
		return nil
	}
	return []Stage{StageDocumentVerification, StageFinancialReview, StageAcademicReview}
}

// ValidStage reports whether the value names a known review stage.
func ValidStage(stage Stage) bool {
	for _, s := range orderedStages {
		if s == stage {
			return true
		}
	}
	return false
}

// ParseStage converts external input into a Stage.
func ParseStage(raw string) (Stage, error) {
	stage := Stage(strings.ToLower(strings.TrimSpace(raw)))
	if !ValidStage(stage) {
		return "", fmt.Errorf("unknown review stage '%s'", raw)
	}
	return stage, nil
}

// StageLabel returns the human-readable name used in notifications.
func StageLabel(stage Stage) string {
	switch stage {
	case StageDocumentVerification:
		return "Document Verification"
	case StageFinancialReview:
		return "Financial Review"
	case StageAcademicReview:
		return "Academic Review"
	case StageFinalApproval:
		return "Final Approval"
	default:
		return string(stage)
	}
}
