package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/madan-d/classmos/internal/app"
	"github.com/madan-d/classmos/internal/llm"
	"github.com/madan-d/classmos/internal/store"
	"github.com/madan-d/classmos/internal/ui/components"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect LLM request/response events",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM events",
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		events, err := a.Store.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if purpose != "" {
			events = lo.Filter(events, func(e store.LLMEvent, _ int) bool { return e.Purpose == purpose })
		}
		if wantJSON(cmd) {
			return printJSON(cmd.OutOrStdout(), events)
		}
		if len(events) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No LLM events found.")
			return nil
		}

		rows := lo.Map(events, func(e store.LLMEvent, _ int) []string {
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			return []string{
				strconv.Itoa(e.ID),
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Purpose,
				truncate(e.Model, 28),
				strconv.Itoa(e.InputTokens),
				strconv.Itoa(e.OutputTokens),
				strconv.FormatInt(e.LatencyMs, 10),
				ok,
			}
		})
		fmt.Fprintln(cmd.OutOrStdout(), components.Table(
			[]string{"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK"}, rows))
		return nil
	}),
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View full request/response for an LLM event",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		e, err := a.Store.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if wantJSON(cmd) {
			return printJSON(cmd.OutOrStdout(), e)
		}

		out := cmd.OutOrStdout()
		sep := strings.Repeat("─", 60)

		fmt.Fprintf(out, "ID:        %d\n", e.ID)
		fmt.Fprintf(out, "Time:      %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Provider:  %s\n", e.Provider)
		fmt.Fprintf(out, "Model:     %s\n", e.Model)
		fmt.Fprintf(out, "Purpose:   %s\n", e.Purpose)
		fmt.Fprintf(out, "Tokens:    %d in / %d out\n", e.InputTokens, e.OutputTokens)
		fmt.Fprintf(out, "Latency:   %dms\n", e.LatencyMs)
		fmt.Fprintf(out, "Success:   %v\n", e.Success)
		if e.ErrorMessage != "" {
			fmt.Fprintf(out, "Error:     %s\n", e.ErrorMessage)
		}

		for _, part := range []struct{ title, body string }{
			{"REQUEST", e.RequestBody},
			{"RESPONSE", e.ResponseBody},
		} {
			fmt.Fprintln(out)
			fmt.Fprintln(out, sep)
			fmt.Fprintln(out, part.title)
			fmt.Fprintln(out, sep)
			if part.body != "" {
				fmt.Fprintln(out, part.body)
			} else {
				fmt.Fprintln(out, "(not captured)")
			}
		}
		return nil
	}),
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated LLM token usage and estimated cost",
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		ctx := cmd.Context()
		repo := a.Store.EventRepo()

		stats, err := repo.LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(stats) == 0 {
			fmt.Fprintln(out, "No LLM usage recorded yet.")
			return nil
		}

		var totalCalls, totalIn, totalOut int
		rows := lo.Map(stats, func(st store.PurposeUsage, _ int) []string {
			totalCalls += st.Calls
			totalIn += st.InputTokens
			totalOut += st.OutputTokens
			return []string{st.Purpose, strconv.Itoa(st.Calls), strconv.Itoa(st.InputTokens),
				strconv.Itoa(st.OutputTokens), strconv.Itoa(st.InputTokens + st.OutputTokens),
				strconv.FormatInt(st.AvgLatencyMs, 10)}
		})
		rows = append(rows, []string{"TOTAL", strconv.Itoa(totalCalls), strconv.Itoa(totalIn),
			strconv.Itoa(totalOut), strconv.Itoa(totalIn + totalOut), ""})
		fmt.Fprintln(out, "Usage by Purpose")
		fmt.Fprintln(out, components.Table([]string{"Purpose", "Calls", "Input", "Output", "Total", "Avg Ms"}, rows))

		modelUsage, err := repo.LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		if len(modelUsage) == 0 {
			return nil
		}

		var unknownModels []string
		costRows := lo.Map(modelUsage, func(mu store.ModelUsage, _ int) []string {
			cost := "?"
			if c := llm.LookupCost(mu.Model); c != nil {
				cost = formatCost(c.Cost(mu.InputTokens, mu.OutputTokens))
			} else {
				unknownModels = append(unknownModels, mu.Model)
			}
			return []string{truncate(mu.Model, 32), strconv.Itoa(mu.Calls),
				strconv.Itoa(mu.InputTokens), strconv.Itoa(mu.OutputTokens), cost}
		})
		total, unpriced := llm.TotalCost(lo.Map(modelUsage, func(mu store.ModelUsage, _ int) llm.ModelTokens {
			return llm.ModelTokens{Model: mu.Model, InputTokens: mu.InputTokens, OutputTokens: mu.OutputTokens}
		}))
		label := "TOTAL"
		if unpriced {
			label = "TOTAL (partial)"
		}
		costRows = append(costRows, []string{label, "", "", "", formatCost(total)})

		fmt.Fprintln(out)
		fmt.Fprintln(out, "Estimated Cost (USD)")
		fmt.Fprintln(out, components.Table([]string{"Model", "Calls", "Input", "Output", "Cost"}, costRows))
		if len(unknownModels) > 0 {
			fmt.Fprintf(out, "\nPricing unavailable for: %s\n", strings.Join(unknownModels, ", "))
		}
		return nil
	}),
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. quiz, course)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
