package types

// DesignPlan is an opaque, schema-shaped site design plan. Only the seed
// field is interpreted.
type DesignPlan map[string]any

// DesignStyleFlags is the pool randomized plans sample from.
var DesignStyleFlags = []string{"clean", "airy", "modern", "serifish", "boxed", "outlined", "lined"}
