// Package agents implements the analysis modules. Each agent builds a prompt
// for its kind, calls the inference client, and parses the completion into a
// typed result. Parsing is strict: malformed or out-of-range output is an
// error, which the orchestration layer converts into fallback substitution.
package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"stratagem/internal/analysis"
)

// Output couples a typed result with token accounting from the backend.
type Output struct {
	Result     analysis.AnalysisResult
	TokensUsed int
}

// Agent is one parallel-stage analysis module. The executive agent is not an
// Agent: it consumes the parallel stage's outputs and has its own entry point.
type Agent interface {
	Kind() analysis.Kind
	Analyze(ctx context.Context, req *analysis.AnalysisRequest) (*Output, error)
}

// Options tune the generation request shared by all agents.
type Options struct {
	MaxTokens   int
	Temperature float32
}

// DefaultOptions returns conservative generation settings for structured
// output.
func DefaultOptions() Options {
	return Options{MaxTokens: 4096, Temperature: 0.2}
}

// extractJSON pulls the first JSON object out of a completion, tolerating
// fenced code blocks and surrounding prose.
func extractJSON(content string) (string, error) {
	if idx := strings.Index(content, "```json"); idx >= 0 {
		rest := content[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			content = rest[:end]
		}
	}
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("no JSON object in completion")
	}
	return content[start : end+1], nil
}

// decodeStrict unmarshals into v, rejecting unknown fields so that schema
// drift in the model output surfaces as a validation failure.
func decodeStrict(raw string, v interface{}) error {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode completion: %w", err)
	}
	return nil
}

// writeLeadContext appends the shared lead block every prompt starts from.
func writeLeadContext(sb *strings.Builder, req *analysis.AnalysisRequest) {
	lead := req.Lead
	fmt.Fprintf(sb, "COMPANY PROFILE\n")
	fmt.Fprintf(sb, "Name: %s\n", lead.CompanyName)
	fmt.Fprintf(sb, "Industry: %s\n", lead.Industry)
	fmt.Fprintf(sb, "Employees: %d\n", lead.Size)
	fmt.Fprintf(sb, "Location: %s\n", lead.Location)
	fmt.Fprintf(sb, "Annual revenue (USD): %.0f\n", lead.AnnualRevenue)
	fmt.Fprintf(sb, "Stage: %s\n\n", lead.Stage)

	if req.Tactical != nil {
		fmt.Fprintf(sb, "UPSTREAM QUALIFICATION\n")
		fmt.Fprintf(sb, "Lead score: %.2f\n", req.Tactical.LeadScore)
		if len(req.Tactical.PainPoints) > 0 {
			fmt.Fprintf(sb, "Pain points: %s\n", strings.Join(req.Tactical.PainPoints, "; "))
		}
		if len(req.Tactical.TechStack) > 0 {
			fmt.Fprintf(sb, "Tech stack: %s\n", strings.Join(req.Tactical.TechStack, ", "))
		}
		sb.WriteString("\n")
	}

	reqs := req.Requirements
	fmt.Fprintf(sb, "SOLUTION REQUIREMENTS\n")
	fmt.Fprintf(sb, "Multi-tenant: %v\n", reqs.MultiTenant)
	fmt.Fprintf(sb, "Real-time processing: %v\n", reqs.RealTimeProcessing)
	fmt.Fprintf(sb, "Global deployment: %v\n", reqs.GlobalDeployment)
	if len(reqs.ComplianceFrameworks) > 0 {
		fmt.Fprintf(sb, "Required compliance frameworks: %s\n", strings.Join(reqs.ComplianceFrameworks, ", "))
	}
	sb.WriteString("\n")
}
