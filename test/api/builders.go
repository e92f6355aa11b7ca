package api

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

const (
	// DefaultScheduleExpression fires every five seconds (six field cron).
	DefaultScheduleExpression = "*/5 * * * * *"

	// DefaultUserFolder is where test runnables are created.
	DefaultUserFolder = "u/admin"
)

func generateRandomName(prefix string) string {
	bytes := make([]byte, 4) // 8 hex characters
	_, _ = rand.Read(bytes)

	return fmt.Sprintf("%s-%s", prefix, hex.EncodeToString(bytes))
}

func GenerateTestID() string {
	return generateRandomName("test")
}

// GenerateTestPath returns a unique runnable path in the admin user folder.
func GenerateTestPath(prefix string) string {
	return DefaultUserFolder + "/" + generateRandomName(prefix)
}

// SchedulePayloadBuilder builds schedule creation requests.
type SchedulePayloadBuilder struct {
	path         string
	runnablePath string
	kind         RunnableKind
	schedule     string
	timezone     string
	args         map[string]interface{}
}

// NewSchedulePayload creates a builder targeting a script, firing every five
// seconds with no arguments. The timezone is left to the client's
// configuration unless WithTimezone is used.
func NewSchedulePayload(path, runnablePath string) *SchedulePayloadBuilder {
	return &SchedulePayloadBuilder{
		path:         path,
		runnablePath: runnablePath,
		kind:         RunnableScript,
		schedule:     DefaultScheduleExpression,
	}
}

// WithKind selects whether the runnable path names a script or a flow, only
// RunnableFlow targets a flow.
func (b *SchedulePayloadBuilder) WithKind(kind RunnableKind) *SchedulePayloadBuilder {
	b.kind = kind
	return b
}

// WithCron sets the cron expression.
func (b *SchedulePayloadBuilder) WithCron(schedule string) *SchedulePayloadBuilder {
	b.schedule = schedule
	return b
}

func (b *SchedulePayloadBuilder) WithTimezone(timezone string) *SchedulePayloadBuilder {
	b.timezone = timezone
	return b
}

// WithArgs sets the default arguments passed to each scheduled run.
func (b *SchedulePayloadBuilder) WithArgs(args map[string]interface{}) *SchedulePayloadBuilder {
	b.args = args
	return b
}

// Build returns the completed schedule request. Every call gets its own
// argument map so requests never share state.
func (b *SchedulePayloadBuilder) Build() *ScheduleRequest {
	args := make(map[string]interface{}, len(b.args))
	maps.Copy(args, b.args)

	return &ScheduleRequest{
		Path:       b.path,
		Schedule:   b.schedule,
		Timezone:   b.timezone,
		ScriptPath: b.runnablePath,
		IsFlow:     b.kind.IsFlow(),
		Args:       args,
		Enabled:    true,
	}
}

// FlowDefinitionBuilder builds flow definitions made of inline scripts.
type FlowDefinitionBuilder struct {
	path    string
	summary string
	inputs  []string
	modules []map[string]interface{}
}

// NewFlowDefinition creates an empty flow definition. No path is set, so
// CreateFlow will fill it in.
func NewFlowDefinition(summary string) *FlowDefinitionBuilder {
	return &FlowDefinitionBuilder{
		summary: summary,
	}
}

// WithPath pins the flow's path inside the definition itself.
func (b *FlowDefinitionBuilder) WithPath(path string) *FlowDefinitionBuilder {
	b.path = path
	return b
}

// WithRawScriptStep appends an inline script step, each named input is
// wired to the flow input of the same name.
func (b *FlowDefinitionBuilder) WithRawScriptStep(id, language, content string, inputs ...string) *FlowDefinitionBuilder {
	transforms := map[string]interface{}{}

	for _, input := range inputs {
		transforms[input] = map[string]interface{}{
			"type": "javascript",
			"expr": "flow_input." + input,
		}

		if !slices.Contains(b.inputs, input) {
			b.inputs = append(b.inputs, input)
		}
	}

	b.modules = append(b.modules, map[string]interface{}{
		"id": id,
		"value": map[string]interface{}{
			"type":             "rawscript",
			"content":          content,
			"language":         language,
			"input_transforms": transforms,
		},
	})

	return b
}

// Build returns the flow definition as an object.
func (b *FlowDefinitionBuilder) Build() map[string]interface{} {
	properties := map[string]interface{}{}
	for _, input := range b.inputs {
		properties[input] = map[string]interface{}{}
	}

	modules := make([]interface{}, 0, len(b.modules))
	for _, module := range b.modules {
		modules = append(modules, module)
	}

	definition := map[string]interface{}{
		"summary":     b.summary,
		"description": "",
		"value": map[string]interface{}{
			"modules": modules,
		},
		"schema": map[string]interface{}{
			"$schema":    "https://json-schema.org/draft/2020-12/schema",
			"type":       "object",
			"properties": properties,
			"required":   []interface{}{},
		},
	}

	if b.path != "" {
		definition["path"] = b.path
	}

	return definition
}

// String returns the flow definition as JSON text, the form CreateFlow takes.
func (b *FlowDefinitionBuilder) String() string {
	//nolint:errchkjson // the definition only holds JSON native values
	data, _ := json.Marshal(b.Build())

	return string(data)
}
