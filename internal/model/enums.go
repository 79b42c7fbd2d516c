package model

type SessionStatus string

const (
	SessionStatusPending    SessionStatus = "pending"
	SessionStatusConfirmed  SessionStatus = "confirmed"
	SessionStatusBothReady  SessionStatus = "both_ready"
	SessionStatusInProgress SessionStatus = "in_progress"
	SessionStatusCompleted  SessionStatus = "completed"
	SessionStatusCancelled  SessionStatus = "cancelled"
	SessionStatusMissed     SessionStatus = "missed"
)

// IsTerminal reports whether no participant may join the session anymore.
func (s SessionStatus) IsTerminal() bool {
	return s == SessionStatusCompleted || s == SessionStatusCancelled || s == SessionStatusMissed
}

type Role string

const (
	RoleInterviewer Role = "interviewer"
	RoleCandidate   Role = "candidate"
)

type Region string

const (
	RegionUSEast  Region = "us-east"
	RegionAPSouth Region = "ap-south"
)

// Complement returns the failover region paired with r. The deployment runs
// exactly two transport regions, so the complement is always well defined.
func (r Region) Complement() Region {
	if r == RegionUSEast {
		return RegionAPSouth
	}
	return RegionUSEast
}

func (r Region) Valid() bool {
	return r == RegionUSEast || r == RegionAPSouth
}

type SuggestionType string

const (
	SuggestionFollowUp    SuggestionType = "follow_up"
	SuggestionSkillGap    SuggestionType = "skill_gap"
	SuggestionTopicSwitch SuggestionType = "topic_switch"
	SuggestionWarning     SuggestionType = "warning"
)

type SuggestionPriority string

const (
	PriorityHigh   SuggestionPriority = "high"
	PriorityMedium SuggestionPriority = "medium"
	PriorityLow    SuggestionPriority = "low"
)

type SkillQuality string

const (
	SkillQualityShallow SkillQuality = "shallow"
	SkillQualityDeep    SkillQuality = "deep"
)

// QuestionSource identifies where the analyzer grounded a follow-up question.
type QuestionSource string

const (
	SourceTranscript QuestionSource = "transcript"
	SourceResume     QuestionSource = "resume"
	SourceJob        QuestionSource = "job"
	SourceSkills     QuestionSource = "skills"
	SourceUnknown    QuestionSource = "unknown"
)

// SourcePriority ranks question provenance for follow-up selection.
// Lower sorts first.
func SourcePriority(s QuestionSource) int {
	switch s {
	case SourceTranscript:
		return 0
	case SourceResume:
		return 1
	case SourceJob:
		return 2
	case SourceSkills:
		return 3
	default:
		return 4
	}
}
