package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/cancerguard-api/internal/imaging"
	"github.com/jwalitptl/cancerguard-api/internal/model"
	"github.com/jwalitptl/cancerguard-api/internal/screening"
)

func registerCmd(opts *options) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			req := model.RegisterRequest{Username: opts.username, Password: opts.password}
			if email != "" {
				req.Email = &email
			}
			user, err := c.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registered %s (id %d)\n", user.Username, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "optional email address")
	return cmd
}

func basicCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "basic",
		Short: "Answer the eight question questionnaire",
		Long:  "Answer each question by number. Enter b to go back to the previous question.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, _, err := opts.login(ctx)
			if err != nil {
				return err
			}
			return runBasic(ctx, screening.NewBasicFlow(c), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runBasic(ctx context.Context, flow *screening.BasicFlow, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for flow.State() == screening.BasicAnswering {
		q, err := flow.Current()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\n[%d/%d] %s\n", flow.Step()+1, screening.TotalQuestions, q.Question)
		for i, o := range q.Options {
			fmt.Fprintf(out, "  %d) %s\n", i+1, o)
		}
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return io.ErrUnexpectedEOF
		}
		input := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(input, "b") {
			if err := flow.Previous(); err != nil {
				fmt.Fprintln(out, err)
			}
			continue
		}
		n, err := strconv.Atoi(input)
		if err != nil || n < 1 || n > len(q.Options) {
			fmt.Fprintf(out, "enter a number between 1 and %d\n", len(q.Options))
			continue
		}
		if err := flow.Answer(ctx, q.Options[n-1]); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			if flow.State() == screening.BasicAssessmentPending {
				break
			}
		}
	}

	// A failed save keeps the assessment; retry on request.
	for flow.State() == screening.BasicAssessmentPending {
		fmt.Fprint(out, "saving the result failed, retry? [Y/n] ")
		if !scanner.Scan() || strings.EqualFold(strings.TrimSpace(scanner.Text()), "n") {
			printAssessment(out, flow.Assessment())
			return fmt.Errorf("result not saved")
		}
		if err := flow.Save(ctx); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}

	printAssessment(out, flow.Assessment())
	if r := flow.Result(); r != nil {
		fmt.Fprintf(out, "saved as test result %d\n", r.ID)
	}
	return nil
}

func advancedCmd(opts *options) *cobra.Command {
	var area, duration, pain, imagePath string
	cmd := &cobra.Command{
		Use:   "advanced",
		Short: "Classify an image of the affected area",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			data, err := os.ReadFile(imagePath)
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}
			c, user, err := opts.login(ctx)
			if err != nil {
				return err
			}

			classifier := imaging.NewClient(opts.classifierURL, &http.Client{Timeout: opts.timeout})
			flow := screening.NewAdvancedFlow(c, classifier, user.ID)
			if err := flow.SelectArea(area); err != nil {
				return fmt.Errorf("--area must be one of %s: %w", strings.Join(screening.AdvancedAreas, ", "), err)
			}
			if err := flow.AnswerQuestions(duration, pain); err != nil {
				return fmt.Errorf("--duration must be one of %q and --pain one of %q: %w",
					screening.DurationOptions, screening.PainOptions, err)
			}
			if err := flow.AttachImage(filepath.Base(imagePath), data); err != nil {
				return err
			}
			assessment, err := flow.Submit(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printAssessment(out, assessment)
			if r := flow.Result(); r != nil {
				fmt.Fprintf(out, "saved as test result %d\n", r.ID)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&area, "area", "", "body area: skin, throat or breast")
	f.StringVar(&duration, "duration", screening.DurationOptions[0], "how long the issue has been noticed")
	f.StringVar(&pain, "pain", screening.PainOptions[0], "pain in the area")
	f.StringVar(&imagePath, "image", "", "path to the image")
	_ = cmd.MarkFlagRequired("area")
	_ = cmd.MarkFlagRequired("image")
	return cmd
}

func chatCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Talk to the assistant, one message per line",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, _, err := opts.login(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var history []model.ChatTurn
			scanner := bufio.NewScanner(cmd.InOrStdin())
			fmt.Fprint(out, "you> ")
			for scanner.Scan() {
				query := strings.TrimSpace(scanner.Text())
				if query == "" {
					fmt.Fprint(out, "you> ")
					continue
				}
				reply, err := c.Chatbot(ctx, query, history)
				if err != nil {
					fmt.Fprintf(out, "error: %v\n", err)
				} else {
					fmt.Fprintf(out, "assistant> %s\n", reply)
					history = append(history,
						model.ChatTurn{Role: "user", Content: query},
						model.ChatTurn{Role: "assistant", Content: reply})
				}
				fmt.Fprint(out, "you> ")
			}
			return scanner.Err()
		},
	}
}

func resultsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "results",
		Short: "List saved test results",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, _, err := opts.login(ctx)
			if err != nil {
				return err
			}
			results, err := c.TestResults(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintln(out, "no test results")
			}
			for _, r := range results {
				confidence := "-"
				if r.Confidence != nil {
					confidence = strconv.Itoa(*r.Confidence) + "%"
				}
				fmt.Fprintf(out, "%d\t%s\t%s\t%s\t%s risk\t%s\n",
					r.ID, r.CreatedAt.Format("2006-01-02"), r.TestType, r.CancerType, r.RiskLevel, confidence)
			}
			return nil
		},
	}
}

func statusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check text generation and database status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := opts.client()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			gen, err := c.GeminiStatus(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "text generation: %s\n", gen.Message)
			db, err := c.DatabaseStatus(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "database: %s\n", db.Message)
			return nil
		},
	}
}

func printAssessment(out io.Writer, a *model.Assessment) {
	if a == nil {
		return
	}
	fmt.Fprintf(out, "\nRisk level: %s (confidence %d%%)\n%s\n", a.RiskLevel, a.Confidence, a.Explanation)
	for _, r := range a.Recommendations {
		fmt.Fprintf(out, "  - %s\n", r)
	}
}
