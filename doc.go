// Package orion is a client-side orchestration layer for the Orion
// agent-execution service: it delegates natural-language tasks to the remote
// backend, structures free-text replies into typed Go values, and coordinates
// multi-step exchanges involving tool invocation and sub-agent delegation.
//
// # Agents
//
// Three agent variants share one Run contract. Operator is a leaf: one
// round-trip, raw text back. Analyst adds tools and optional structured
// output. Supervisor adds delegation: it registers other agents under stable
// handles and the backend hands sub-tasks to them mid-conversation. Analyst
// and Supervisor both drive a bounded loop (at most 10 round-trips per run)
// that feeds tool results and delegation results back to the backend until it
// stops asking for either.
//
// # Tools
//
// A tool is a typed Go function made callable by the backend. NewTool derives
// the parameter manifest from the argument struct and validates incoming
// arguments against that same schema before the function runs. Tool failures
// are data, not control flow: the registry converts every failure into the
// value {"error": "<tool>: <message>"} and the loop keeps running.
//
// # Structured output
//
// Extractor turns model text into a validated struct through a deterministic
// three-strategy cascade: parse the whole text as JSON, parse the span between
// the first '{' and the last '}', and finally scan for field: value pairs one
// declared field at a time. WithOutputType attaches a typed extraction to an
// agent; ResultAs recovers the concrete value.
//
// # Example
//
//	type Analysis struct {
//		Trend      string   `json:"trend" description:"Overall market trend"`
//		Confidence float64  `json:"confidence" description:"Confidence from 0 to 1"`
//		Actions    []string `json:"actions" description:"Recommended actions"`
//	}
//
//	client, err := orion.NewClient(orion.ClientConfig{})
//	if err != nil { ... }
//	quote := orion.MustTool("get_quote", "Fetch the current quote for a ticker",
//		func(_ context.Context, a QuoteArgs) (Quote, error) { ... })
//	analyst, err := orion.NewAnalyst(client, "Market Analyst",
//		"Analyze the requested market and report a trend.",
//		orion.WithTools(quote),
//		orion.WithOutputType(orion.MustOutputTypeFor[Analysis]()),
//	)
//	if err != nil { ... }
//	res, err := analyst.Run(ctx, "How is the banking sector doing?")
//	if err != nil { ... }
//	if a, ok := orion.ResultAs[Analysis](res); ok {
//		fmt.Println(a.Trend, a.Confidence)
//	}
package orion
