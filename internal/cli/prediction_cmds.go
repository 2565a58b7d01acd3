package cli

import (
	"context"
	"text/tabwriter"

	"github.com/jrsteele09/riskdesk/predictions"
	"github.com/spf13/cobra"
)

func newCustomersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "customers",
		Short: "List customers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			customers, err := a.sys.API.ListCustomers(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			_, _ = tw.Write([]byte("ID\tNAME\tEMAIL\n"))
			for _, c := range customers {
				_, _ = tw.Write([]byte(c.CustomerID + "\t" + c.FullName + "\t" + c.Email + "\n"))
			}
			return tw.Flush()
		},
	}
}

func newPredictCmd(a *app) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "predict <customerId>",
		Short: "Start a risk prediction for a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			job, err := a.sys.API.CreatePrediction(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.printf("Prediction %s submitted\n", job.PredictionID)
			if !watch {
				return nil
			}
			return a.watch(cmd.Context(), job.PredictionID)
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "follow the prediction until it finishes")
	return cmd
}

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <predictionId>",
		Short: "Follow a prediction until it finishes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			return a.watch(cmd.Context(), args[0])
		},
	}
}

// watch prints each status change until the job is terminal or ctx ends.
func (a *app) watch(ctx context.Context, predictionID string) error {
	p, err := a.sys.NewPoller(a.cfg, a.logger)
	if err != nil {
		return err
	}

	var lastStatus predictions.Status
	task, err := p.Observe(ctx, predictionID, func(job *predictions.Job) {
		if job.Status == lastStatus {
			return
		}
		lastStatus = job.Status
		a.printf("%s: %s\n", predictionID, predictions.Verdict(job))
	})
	if err != nil {
		return err
	}
	<-task.Done()
	return task.Err()
}
