// Package catalog provides the feature catalog offered during feature
// discovery. A project-specific catalog can be produced by a pluggable
// Generator; when none is configured or generation fails, a built-in
// generic catalog is served instead.
package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/architectd/internal/features"
	"github.com/fyrsmithlabs/architectd/internal/state"
)

// Layer classifies a catalog category as product-facing or
// architecture-facing.
type Layer string

const (
	LayerFunctional    Layer = "functional"
	LayerArchitectural Layer = "architectural"
)

// CategoryLayers maps each known category to its layer.
var CategoryLayers = map[string]Layer{
	"Core Functionality":            LayerFunctional,
	"AI & Intelligence":             LayerFunctional,
	"User Experience":               LayerFunctional,
	"Assessment & Progress":         LayerFunctional,
	"Engagement":                    LayerFunctional,
	"Integrations":                  LayerFunctional,
	"Analytics & Reporting":         LayerFunctional,
	"Architecture & Infrastructure": LayerArchitectural,
	"Security & Compliance":         LayerArchitectural,
	"ML & Model Layer":              LayerArchitectural,
	"DevOps & Deployment":           LayerArchitectural,
	"Observability & Monitoring":    LayerArchitectural,
	"Testing & QA":                  LayerArchitectural,
}

// LayerOf returns the layer for a category, defaulting unknown
// categories to functional.
func LayerOf(category string) Layer {
	if l, ok := CategoryLayers[category]; ok {
		return l
	}
	return LayerFunctional
}

// ExclusionGroups returns the mutual-exclusion groups enforced over
// catalog selections. At most one feature per group may be selected.
func ExclusionGroups() []features.ExclusionGroup {
	return []features.ExclusionGroup{
		{
			Group:      "architecture_style",
			Label:      "Architecture Style",
			FeatureIDs: []string{"microservices", "modular_monolith"},
		},
		{
			Group:      "deployment_strategy",
			Label:      "Deployment Strategy",
			FeatureIDs: []string{"blue_green_deploy", "canary_releases"},
		},
	}
}

// Generator produces a catalog tailored to a project idea. Returning an
// error selects the fallback catalog.
type Generator func(ctx context.Context, idea string) ([]state.CatalogEntry, error)

// ForIdea returns a catalog for the given idea. With no generator, an
// empty idea, or a failed generation, the generic fallback is returned.
func ForIdea(ctx context.Context, idea string, gen Generator, log *zap.Logger) []state.CatalogEntry {
	if log == nil {
		log = zap.NewNop()
	}
	if gen == nil || idea == "" {
		log.Info("no catalog generator configured, using fallback catalog")
		return Fallback()
	}

	entries, err := gen(ctx, idea)
	if err != nil {
		log.Warn("catalog generation failed, using fallback", zap.Error(err))
		return Fallback()
	}
	if len(entries) == 0 {
		log.Warn("catalog generator returned no entries, using fallback")
		return Fallback()
	}
	return entries
}

// Fallback returns a copy of the built-in generic catalog.
func Fallback() []state.CatalogEntry {
	out := make([]state.CatalogEntry, len(fallbackCatalog))
	copy(out, fallbackCatalog)
	return out
}

var fallbackCatalog = []state.CatalogEntry{
	// Core Functionality
	{ID: "user_registration", Name: "User Registration", Description: "Account creation with email and profile setup", Category: "Core Functionality"},
	{ID: "dashboard", Name: "Dashboard", Description: "Central hub showing key metrics and recent activity", Category: "Core Functionality"},
	{ID: "search_filtering", Name: "Search & Filtering", Description: "Find and filter content with advanced search options", Category: "Core Functionality"},
	{ID: "content_management", Name: "Content Management", Description: "Create, edit, and organize content within the platform", Category: "Core Functionality"},
	{ID: "role_management", Name: "Role Management", Description: "Assign and manage user roles and permissions", Category: "Core Functionality"},
	// AI & Intelligence
	{ID: "ai_recommendations", Name: "AI Recommendations", Description: "Personalized suggestions powered by machine learning algorithms", Category: "AI & Intelligence"},
	{ID: "content_generation", Name: "Content Generation", Description: "AI-powered automatic content creation and drafting", Category: "AI & Intelligence"},
	{ID: "nlp_search", Name: "Natural Language Search", Description: "Search using natural language queries instead of keywords", Category: "AI & Intelligence"},
	{ID: "adaptive_system", Name: "Adaptive System", Description: "System that learns and adapts to user behavior patterns", Category: "AI & Intelligence"},
	// User Experience
	{ID: "responsive_design", Name: "Responsive Design", Description: "Optimized layout for desktop, tablet, and mobile devices", Category: "User Experience"},
	{ID: "accessibility", Name: "Accessibility", Description: "WCAG-compliant design for users with disabilities", Category: "User Experience"},
	{ID: "onboarding_flow", Name: "Onboarding Flow", Description: "Guided first-time user experience with helpful tutorials", Category: "User Experience"},
	{ID: "dark_mode", Name: "Dark Mode", Description: "Alternate color scheme reducing eye strain in low light", Category: "User Experience"},
	// Assessment & Progress
	{ID: "progress_tracking", Name: "Progress Tracking", Description: "Visual indicators showing completion status and milestones", Category: "Assessment & Progress"},
	{ID: "skill_assessment", Name: "Skill Assessment", Description: "Evaluate user capabilities through structured assessments", Category: "Assessment & Progress"},
	{ID: "goal_setting", Name: "Goal Setting", Description: "Define and track personal or team objectives", Category: "Assessment & Progress"},
	{ID: "feedback_system", Name: "Feedback System", Description: "Collect and display structured feedback from users", Category: "Assessment & Progress"},
	// Engagement
	{ID: "notifications", Name: "Notifications", Description: "Email and in-app alerts for important events", Category: "Engagement"},
	{ID: "gamification", Name: "Gamification", Description: "Points, badges, and streaks to motivate participation", Category: "Engagement"},
	{ID: "social_features", Name: "Social Features", Description: "Community interactions like comments, sharing, and collaboration", Category: "Engagement"},
	{ID: "discussion_forums", Name: "Discussion Forums", Description: "Threaded discussion boards for community knowledge sharing", Category: "Engagement"},
	// Integrations
	{ID: "api_access", Name: "API Access", Description: "RESTful API for third-party integrations and extensions", Category: "Integrations"},
	{ID: "calendar_sync", Name: "Calendar Sync", Description: "Synchronize events with Google Calendar and Outlook", Category: "Integrations"},
	{ID: "third_party_auth", Name: "Third-party Auth", Description: "Login via Google, GitHub, or other OAuth providers", Category: "Integrations"},
	{ID: "webhooks", Name: "Webhooks", Description: "Automated event notifications to external services", Category: "Integrations"},
	{ID: "payment_gateway", Name: "Payment Gateway", Description: "Stripe or PayPal integration for billing and subscriptions", Category: "Integrations"},
	{ID: "sso_integration", Name: "SSO Integration", Description: "Enterprise single sign-on via SAML or OpenID Connect", Category: "Integrations"},
	// Analytics & Reporting
	{ID: "usage_analytics", Name: "Usage Analytics", Description: "Track user engagement, retention, and feature adoption", Category: "Analytics & Reporting"},
	{ID: "custom_reports", Name: "Custom Reports", Description: "Generate tailored reports with flexible parameters", Category: "Analytics & Reporting"},
	{ID: "export_tools", Name: "Export Tools", Description: "Download data and reports in CSV, PDF formats", Category: "Analytics & Reporting"},
	{ID: "realtime_dashboard", Name: "Real-time Dashboard", Description: "Live-updating metrics dashboard with streaming data feeds", Category: "Analytics & Reporting"},
	{ID: "ab_testing", Name: "A/B Testing", Description: "Controlled experiments comparing feature variants with statistical analysis", Category: "Analytics & Reporting"},
	// Architecture & Infrastructure
	{ID: "microservices", Name: "Microservices", Description: "Decompose application into independently deployable service boundaries", Category: "Architecture & Infrastructure"},
	{ID: "modular_monolith", Name: "Modular Monolith", Description: "Single deployable unit with well-defined internal module boundaries", Category: "Architecture & Infrastructure"},
	{ID: "api_gateway", Name: "API Gateway", Description: "Centralized entry point handling routing, auth, and rate limiting", Category: "Architecture & Infrastructure"},
	{ID: "background_jobs", Name: "Background Jobs", Description: "Async task processing for long-running operations via worker queues", Category: "Architecture & Infrastructure"},
	{ID: "message_queue", Name: "Message Queue", Description: "Asynchronous inter-service communication via RabbitMQ or Redis Streams", Category: "Architecture & Infrastructure"},
	{ID: "caching_layer", Name: "Caching Layer", Description: "Redis or Memcached caching for frequently accessed data", Category: "Architecture & Infrastructure"},
	{ID: "event_driven_arch", Name: "Event-Driven Architecture", Description: "Publish-subscribe event bus for decoupled component communication", Category: "Architecture & Infrastructure"},
	{ID: "database_per_service", Name: "Database per Service", Description: "Isolated data stores per service for independent scaling", Category: "Architecture & Infrastructure"},
	// Security & Compliance
	{ID: "rbac", Name: "Role-Based Access Control", Description: "Granular permissions system with hierarchical role definitions", Category: "Security & Compliance"},
	{ID: "mfa", Name: "Multi-Factor Authentication", Description: "TOTP and SMS-based second factor for account security", Category: "Security & Compliance"},
	{ID: "encryption_at_rest", Name: "Encryption at Rest", Description: "AES-256 encryption for stored data and database fields", Category: "Security & Compliance"},
	{ID: "gdpr_toolkit", Name: "GDPR Toolkit", Description: "Data export, deletion requests, and consent management tools", Category: "Security & Compliance"},
	{ID: "audit_logging", Name: "Audit Logging", Description: "Immutable logs tracking all data access and modifications", Category: "Security & Compliance"},
	{ID: "secrets_management", Name: "Secrets Management", Description: "Vault-based secrets storage with automatic rotation policies", Category: "Security & Compliance"},
	{ID: "api_rate_limiting", Name: "API Rate Limiting", Description: "Token-bucket rate limiting protecting APIs from abuse", Category: "Security & Compliance"},
	// ML & Model Layer
	{ID: "recommender_system", Name: "Recommender System", Description: "Collaborative and content-based filtering recommendation engine", Category: "ML & Model Layer"},
	{ID: "time_series_forecasting", Name: "Time-Series Forecasting", Description: "ARIMA or Prophet models for temporal prediction tasks", Category: "ML & Model Layer"},
	{ID: "transformer_nlp", Name: "Transformer NLP", Description: "Fine-tuned transformer models for text classification and extraction", Category: "ML & Model Layer"},
	{ID: "model_versioning", Name: "Model Versioning", Description: "MLflow or DVC-based model registry with version tracking", Category: "ML & Model Layer"},
	{ID: "feature_store", Name: "Feature Store", Description: "Centralized repository for ML feature computation and serving", Category: "ML & Model Layer"},
	{ID: "model_evaluation", Name: "Model Evaluation", Description: "Automated model performance benchmarking with drift detection", Category: "ML & Model Layer"},
	{ID: "data_pipeline", Name: "Data Pipeline", Description: "ETL orchestration for training data collection and preprocessing", Category: "ML & Model Layer"},
	// DevOps & Deployment
	{ID: "ci_cd_pipeline", Name: "CI/CD Pipeline", Description: "Automated build, test, and deployment via GitHub Actions", Category: "DevOps & Deployment"},
	{ID: "staging_environment", Name: "Staging Environment", Description: "Pre-production environment mirroring production for validation", Category: "DevOps & Deployment"},
	{ID: "blue_green_deploy", Name: "Blue-Green Deployment", Description: "Zero-downtime deployments switching between identical environments", Category: "DevOps & Deployment"},
	{ID: "canary_releases", Name: "Canary Releases", Description: "Gradual rollout shifting traffic to new versions incrementally", Category: "DevOps & Deployment"},
	{ID: "infrastructure_as_code", Name: "Infrastructure as Code", Description: "Terraform or Pulumi templates for reproducible infrastructure provisioning", Category: "DevOps & Deployment"},
	{ID: "feature_flags", Name: "Feature Flags", Description: "Runtime feature toggles for gradual rollout and experimentation", Category: "DevOps & Deployment"},
	{ID: "container_orchestration", Name: "Container Orchestration", Description: "Kubernetes or Docker Compose for container management and scaling", Category: "DevOps & Deployment"},
	// Observability & Monitoring
	{ID: "app_logging", Name: "Application Logging", Description: "Structured JSON logging with correlation IDs across services", Category: "Observability & Monitoring"},
	{ID: "performance_monitoring", Name: "Performance Monitoring", Description: "APM dashboards tracking latency, throughput, and error rates", Category: "Observability & Monitoring"},
	{ID: "ai_model_monitoring", Name: "AI Model Monitoring", Description: "Track model accuracy, drift, and prediction confidence over time", Category: "Observability & Monitoring"},
	{ID: "alerting_system", Name: "Alerting System", Description: "PagerDuty or Opsgenie alerts triggered by metric thresholds", Category: "Observability & Monitoring"},
	{ID: "health_checks", Name: "Health Checks", Description: "Liveness and readiness probes for all service endpoints", Category: "Observability & Monitoring"},
	{ID: "distributed_tracing", Name: "Distributed Tracing", Description: "OpenTelemetry tracing for request flow across service boundaries", Category: "Observability & Monitoring"},
	// Testing & QA
	{ID: "unit_testing_framework", Name: "Unit Testing Framework", Description: "Pytest or Jest harness with coverage gates and fixtures", Category: "Testing & QA"},
	{ID: "integration_testing", Name: "Integration Testing", Description: "End-to-end API and database integration test suites", Category: "Testing & QA"},
	{ID: "load_testing", Name: "Load Testing", Description: "Locust or k6 performance tests simulating concurrent user loads", Category: "Testing & QA"},
	{ID: "security_testing", Name: "Security Testing", Description: "OWASP ZAP scans and dependency vulnerability auditing", Category: "Testing & QA"},
	{ID: "ai_evaluation_suite", Name: "AI Evaluation Suite", Description: "Automated benchmarks measuring AI output quality and consistency", Category: "Testing & QA"},
}
