package deadlines

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/user94a/pratico-server/cmd/cli/config"
	"github.com/user94a/pratico-server/cmd/cli/output"
)

// ==========================
// Init Deadlines
// ==========================
func InitDeadlines(rootCmd *cobra.Command) {

	deadlinesCmd := &cobra.Command{
		Use:   "deadlines",
		Short: "View and update deadlines",
	}

	deadlinesCmd.AddCommand(
		listDeadlinesCmd(),
		doneDeadlineCmd(),
	)

	rootCmd.AddCommand(deadlinesCmd)
}

type deadline struct {
	ID      int       `json:"id"`
	AssetID int       `json:"asset_id"`
	Title   string    `json:"title"`
	DueAt   time.Time `json:"due_at"`
	Status  string    `json:"status"`
}

// ==========================
// LIST (upcoming)
// ==========================
func listDeadlinesCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List upcoming deadlines",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := config.ReadToken()
			if err != nil {
				return err
			}

			before := time.Now().Add(time.Duration(days) * 24 * time.Hour).Format(time.RFC3339)
			req, _ := http.NewRequest("GET", config.APIURL()+"/deadlines?due_before="+before, nil)
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				body, _ := io.ReadAll(resp.Body)
				return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
			}

			var list []deadline
			if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(list))
			for _, d := range list {
				rows = append(rows, []interface{}{d.ID, d.AssetID, d.Title, d.DueAt.Format("2006-01-02"), d.Status})
			}
			output.RenderTable([]string{"ID", "Asset", "Title", "Due", "Status"}, rows)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "Show deadlines due within this many days")
	return cmd
}

// ==========================
// DONE (mark completed)
// ==========================
func doneDeadlineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done [id]",
		Short: "Mark a deadline as done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := config.ReadToken()
			if err != nil {
				return err
			}

			payload, _ := json.Marshal(map[string]string{"status": "done"})
			req, _ := http.NewRequest("PATCH", config.APIURL()+"/deadlines/"+args[0], bytes.NewReader(payload))
			req.Header.Set("Authorization", "Bearer "+token)
			req.Header.Set("Content-Type", "application/json")

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				body, _ := io.ReadAll(resp.Body)
				return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
			}
			fmt.Println("Marked done.")
			return nil
		},
	}
}
