package quality

import (
	"errors"
	"fmt"
)

// ErrInvalidDepthMode reports an unknown build depth mode.
var ErrInvalidDepthMode = errors.New("invalid depth mode")

// DepthMode selects how deep chapters are expected to go.
type DepthMode string

const (
	DepthLight        DepthMode = "light"
	DepthStandard     DepthMode = "standard"
	DepthProfessional DepthMode = "professional"
	DepthEnterprise   DepthMode = "enterprise"
)

// DefaultDepthMode is used when a project never chose a depth.
const DefaultDepthMode = DepthProfessional

// Old mode names still stored by existing projects.
var depthAliases = map[string]DepthMode{
	"lite":      DepthLight,
	"architect": DepthEnterprise,
}

// DepthConfig is the expectation profile for one depth mode.
type DepthConfig struct {
	Label          string `json:"label"`
	TargetPages    string `json:"target_pages"`
	MaxTokens      int    `json:"max_tokens"`
	MinWords       int    `json:"min_words"`
	MinSubsections int    `json:"min_subsections"`
}

var depthModes = map[DepthMode]DepthConfig{
	DepthLight:        {Label: "Light", TargetPages: "20-40", MaxTokens: 4096, MinWords: 800, MinSubsections: 3},
	DepthStandard:     {Label: "Standard", TargetPages: "40-80", MaxTokens: 6144, MinWords: 1500, MinSubsections: 4},
	DepthProfessional: {Label: "Professional", TargetPages: "80-120", MaxTokens: 8192, MinWords: 2500, MinSubsections: 6},
	DepthEnterprise:   {Label: "Enterprise", TargetPages: "120-150+", MaxTokens: 12288, MinWords: 3500, MinSubsections: 8},
}

// ScoreThresholds are the per-depth cutoffs between incomplete,
// needs-expansion, and complete chapters.
type ScoreThresholds struct {
	MinWords       int `json:"min_words"`
	MinSubsections int `json:"min_subsections"`
	Incomplete     int `json:"incomplete_threshold"`
	Complete       int `json:"complete_threshold"`
}

var scoreThresholds = map[DepthMode]struct{ incomplete, complete int }{
	DepthLight:        {35, 55},
	DepthStandard:     {38, 65},
	DepthProfessional: {40, 70},
	DepthEnterprise:   {40, 75},
}

// chapterRequirements maps enhanced outline section titles to the
// subsection headings expected at each depth.
var chapterRequirements = map[string]map[DepthMode][]string{
	"Executive Summary": {
		DepthLight: {"Vision & Strategy", "Business Model"},
		DepthStandard: {"Vision & Strategy", "Business Model", "Risk Summary",
			"Deployment Model"},
		DepthProfessional: {"Vision & Strategy", "Business Model", "Competitive Landscape",
			"Market Size Context", "Risk Summary", "Technical High-Level Architecture",
			"Deployment Model", "Assumptions & Constraints"},
		DepthEnterprise: {"Vision & Strategy", "Business Model", "Competitive Landscape",
			"Market Size Context", "Risk Summary", "Technical High-Level Architecture",
			"Deployment Model", "Assumptions & Constraints", "Stakeholder Map",
			"Investment & Funding Context"},
	},
	"Problem & Market Context": {
		DepthLight: {"Detailed Problem Breakdown", "Existing Alternatives"},
		DepthStandard: {"Detailed Problem Breakdown", "Market Segmentation",
			"Existing Alternatives", "Value Differentiation Matrix"},
		DepthProfessional: {"Detailed Problem Breakdown", "Market Segmentation",
			"Existing Alternatives", "Competitive Gap Analysis",
			"Value Differentiation Matrix", "Market Timing & Trends"},
		DepthEnterprise: {"Detailed Problem Breakdown", "Market Segmentation",
			"Existing Alternatives", "Competitive Gap Analysis",
			"Value Differentiation Matrix", "Market Timing & Trends",
			"Regulatory Landscape", "Total Addressable Market Analysis"},
	},
	"User Personas & Core Use Cases": {
		DepthLight: {"Primary User Personas", "Core Use Cases"},
		DepthStandard: {"Primary User Personas", "Core Use Cases", "User Journey Maps",
			"Access Control Model"},
		DepthProfessional: {"Primary User Personas", "Secondary User Personas",
			"Core Use Cases", "User Journey Maps", "Access Control Model",
			"Onboarding & Activation Flow"},
		DepthEnterprise: {"Primary User Personas", "Secondary User Personas",
			"Core Use Cases", "Edge-Case Use Cases", "User Journey Maps",
			"Access Control Model", "Onboarding & Activation Flow",
			"Internationalization & Localization"},
	},
	"Functional Requirements": {
		DepthLight: {"Feature Specifications", "Input/Output Definitions"},
		DepthStandard: {"Feature Specifications", "Input/Output Definitions",
			"Workflow Diagrams", "Acceptance Criteria"},
		DepthProfessional: {"Feature Specifications", "Input/Output Definitions",
			"Workflow Diagrams", "Acceptance Criteria", "API Endpoint Definitions",
			"Error Handling & Edge Cases", "Feature Dependency Map"},
		DepthEnterprise: {"Feature Specifications", "Input/Output Definitions",
			"Workflow Diagrams", "Acceptance Criteria", "API Endpoint Definitions",
			"Error Handling & Edge Cases", "Feature Dependency Map",
			"Integration Contracts", "Feature Flag Strategy"},
	},
	"AI & Intelligence Architecture": {
		DepthLight: {"AI Capabilities Overview", "Model Selection"},
		DepthStandard: {"AI Capabilities Overview", "Model Selection",
			"Prompt Engineering Strategy", "Inference Pipeline"},
		DepthProfessional: {"AI Capabilities Overview", "Model Selection & Comparison",
			"Prompt Engineering Strategy", "Inference Pipeline",
			"Training & Fine-Tuning Plan", "AI Safety & Guardrails",
			"Cost Estimation & Optimization"},
		DepthEnterprise: {"AI Capabilities Overview", "Model Selection & Comparison",
			"Prompt Engineering Strategy", "Inference Pipeline",
			"Training & Fine-Tuning Plan", "AI Safety & Guardrails",
			"Cost Estimation & Optimization", "Evaluation & Benchmarking",
			"Model Versioning & Rollback", "Responsible AI Framework"},
	},
	"Non-Functional Requirements": {
		DepthLight: {"Performance Requirements", "Scalability Approach"},
		DepthStandard: {"Performance Requirements", "Scalability Approach",
			"Availability & Reliability", "Monitoring & Alerting"},
		DepthProfessional: {"Performance Requirements", "Scalability Approach",
			"Availability & Reliability", "Monitoring & Alerting",
			"Disaster Recovery", "Accessibility Standards"},
		DepthEnterprise: {"Performance Requirements", "Scalability Approach",
			"Availability & Reliability", "Monitoring & Alerting",
			"Disaster Recovery", "Accessibility Standards", "Capacity Planning",
			"SLA Definitions"},
	},
	"Technical Architecture & Data Model": {
		DepthLight: {"Service Architecture", "Data Model Overview"},
		DepthStandard: {"Service Architecture", "Data Model Overview", "API Design",
			"Technology Stack"},
		DepthProfessional: {"Service Architecture", "Database Schema", "API Design",
			"Technology Stack", "Infrastructure & Deployment", "CI/CD Pipeline",
			"Environment Configuration"},
		DepthEnterprise: {"Service Architecture", "Database Schema", "API Design",
			"Technology Stack", "Infrastructure & Deployment", "CI/CD Pipeline",
			"Environment Configuration", "Data Migration Strategy",
			"Caching Architecture", "Event-Driven Patterns"},
	},
	"Security & Compliance": {
		DepthLight: {"Authentication & Authorization", "Data Privacy"},
		DepthStandard: {"Authentication & Authorization", "Data Privacy",
			"Security Architecture", "Compliance Requirements"},
		DepthProfessional: {"Authentication & Authorization", "Data Privacy & Encryption",
			"Security Architecture", "Compliance Requirements", "Threat Model",
			"Audit Logging"},
		DepthEnterprise: {"Authentication & Authorization", "Data Privacy & Encryption",
			"Security Architecture", "Compliance Requirements", "Threat Model",
			"Audit Logging", "Penetration Testing Plan", "Incident Response Playbook"},
	},
	"Success Metrics & KPIs": {
		DepthLight: {"Key Metrics", "Measurement Plan"},
		DepthStandard: {"Key Metrics", "Measurement Plan", "Analytics Architecture",
			"Reporting Dashboard"},
		DepthProfessional: {"Key Metrics", "Measurement Plan", "Analytics Architecture",
			"Reporting Dashboard", "A/B Testing Framework", "Business Impact Tracking"},
		DepthEnterprise: {"Key Metrics", "Measurement Plan", "Analytics Architecture",
			"Reporting Dashboard", "A/B Testing Framework", "Business Impact Tracking",
			"Data Warehouse Design", "Cohort Analysis Plan"},
	},
	"Roadmap & Phased Delivery": {
		DepthLight: {"MVP Scope", "Phase Plan"},
		DepthStandard: {"MVP Scope", "Phase Plan", "Milestone Definitions",
			"Resource Requirements"},
		DepthProfessional: {"MVP Scope", "Phase Plan", "Milestone Definitions",
			"Resource Requirements", "Risk Mitigation Timeline", "Go-To-Market Strategy"},
		DepthEnterprise: {"MVP Scope", "Phase Plan", "Milestone Definitions",
			"Resource Requirements", "Risk Mitigation Timeline", "Go-To-Market Strategy",
			"Team Structure & Hiring Plan", "Technical Debt Budget"},
	},
}

// chapterRequirementsDefault covers the legacy 7-section outline titles.
var chapterRequirementsDefault = map[string]map[DepthMode][]string{
	"System Purpose & Context": {
		DepthLight:    {"Purpose", "Context"},
		DepthStandard: {"Purpose", "Context", "Scope", "Stakeholders"},
		DepthProfessional: {"Purpose", "Context", "Scope", "Stakeholders",
			"Business Model", "Competitive Landscape"},
		DepthEnterprise: {"Purpose", "Context", "Scope", "Stakeholders",
			"Business Model", "Competitive Landscape", "Market Timing",
			"Investment Context"},
	},
	"Target Users & Roles": {
		DepthLight:    {"User Personas", "Roles"},
		DepthStandard: {"User Personas", "Roles", "Access Control", "User Journeys"},
		DepthProfessional: {"User Personas", "Roles", "Access Control", "User Journeys",
			"Onboarding Flow", "Edge Cases"},
		DepthEnterprise: {"User Personas", "Roles", "Access Control", "User Journeys",
			"Onboarding Flow", "Edge Cases", "Internationalization", "Accessibility"},
	},
	"Core Capabilities": {
		DepthLight:    {"Features", "Integration Points"},
		DepthStandard: {"Features", "Integration Points", "API Design", "Workflows"},
		DepthProfessional: {"Features", "Integration Points", "API Design", "Workflows",
			"Acceptance Criteria", "Error Handling"},
		DepthEnterprise: {"Features", "Integration Points", "API Design", "Workflows",
			"Acceptance Criteria", "Error Handling", "Feature Dependencies",
			"Feature Flags"},
	},
	"Non-Goals & Explicit Exclusions": {
		DepthLight: {"Non-Goals", "Exclusions"},
		DepthStandard: {"Non-Goals", "Exclusions", "Future Considerations",
			"Scope Boundaries"},
		DepthProfessional: {"Non-Goals", "Exclusions", "Future Considerations",
			"Scope Boundaries", "Anti-Patterns", "Decision Rationale"},
		DepthEnterprise: {"Non-Goals", "Exclusions", "Future Considerations",
			"Scope Boundaries", "Anti-Patterns", "Decision Rationale",
			"Deferred Features", "Technical Debt Boundaries"},
	},
	"High-Level Architecture": {
		DepthLight: {"Architecture Overview", "Technology Stack"},
		DepthStandard: {"Architecture Overview", "Technology Stack", "Data Model",
			"Infrastructure"},
		DepthProfessional: {"Architecture Overview", "Technology Stack", "Data Model",
			"Infrastructure", "CI/CD Pipeline", "Security Architecture"},
		DepthEnterprise: {"Architecture Overview", "Technology Stack", "Data Model",
			"Infrastructure", "CI/CD Pipeline", "Security Architecture",
			"Caching Strategy", "Event Architecture"},
	},
	"Execution Phases": {
		DepthLight:    {"MVP Scope", "Phase Plan"},
		DepthStandard: {"MVP Scope", "Phase Plan", "Milestones", "Resources"},
		DepthProfessional: {"MVP Scope", "Phase Plan", "Milestones", "Resources",
			"Risk Mitigation", "Go-To-Market"},
		DepthEnterprise: {"MVP Scope", "Phase Plan", "Milestones", "Resources",
			"Risk Mitigation", "Go-To-Market", "Team Structure", "Technical Debt Budget"},
	},
	"Risks, Constraints, and Assumptions": {
		DepthLight:    {"Risks", "Constraints"},
		DepthStandard: {"Risks", "Constraints", "Assumptions", "Mitigation Plans"},
		DepthProfessional: {"Risks", "Constraints", "Assumptions", "Mitigation Plans",
			"Compliance Requirements", "Monitoring"},
		DepthEnterprise: {"Risks", "Constraints", "Assumptions", "Mitigation Plans",
			"Compliance Requirements", "Monitoring", "Incident Response",
			"Disaster Recovery"},
	},
}

var genericSubsections = []string{
	"Overview", "Details", "Implementation", "Considerations",
	"Dependencies", "Testing Strategy", "Deployment Notes",
	"Monitoring & Operations",
}

// ResolveDepthMode resolves a raw mode string, applying legacy aliases.
func ResolveDepthMode(mode string) (DepthMode, error) {
	if alias, ok := depthAliases[mode]; ok {
		return alias, nil
	}
	resolved := DepthMode(mode)
	if _, ok := depthModes[resolved]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidDepthMode, mode)
	}
	return resolved, nil
}

// DepthConfigFor returns the expectation profile for a resolved mode.
// Unknown modes fall back to the default.
func DepthConfigFor(mode DepthMode) DepthConfig {
	if cfg, ok := depthModes[mode]; ok {
		return cfg
	}
	return depthModes[DefaultDepthMode]
}

// ChapterSubsections returns the subsection headings expected of a
// chapter at the given depth. Unknown section titles get a generic list
// sized to the depth's minimum.
func ChapterSubsections(sectionTitle string, mode DepthMode) []string {
	if _, ok := depthModes[mode]; !ok {
		mode = DefaultDepthMode
	}
	if reqs, ok := chapterRequirements[sectionTitle]; ok {
		return append([]string(nil), reqs[mode]...)
	}
	if reqs, ok := chapterRequirementsDefault[sectionTitle]; ok {
		return append([]string(nil), reqs[mode]...)
	}
	return append([]string(nil), genericSubsections[:depthModes[mode].MinSubsections]...)
}

// ScoringThresholdsFor returns the scoring cutoffs for a mode.
func ScoringThresholdsFor(mode DepthMode) ScoreThresholds {
	if _, ok := depthModes[mode]; !ok {
		mode = DefaultDepthMode
	}
	cfg := depthModes[mode]
	t := scoreThresholds[mode]
	return ScoreThresholds{
		MinWords:       cfg.MinWords,
		MinSubsections: cfg.MinSubsections,
		Incomplete:     t.incomplete,
		Complete:       t.complete,
	}
}

// EstimatePages estimates page count at roughly 500 words per page.
func EstimatePages(wordCount int) int {
	if wordCount <= 0 {
		return 0
	}
	if wordCount < 500 {
		return 1
	}
	return wordCount / 500
}

// AllDepthModes returns every depth mode configuration, for UI listings.
func AllDepthModes() map[DepthMode]DepthConfig {
	out := make(map[DepthMode]DepthConfig, len(depthModes))
	for k, v := range depthModes {
		out[k] = v
	}
	return out
}
