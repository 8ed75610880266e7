package assets

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
	"github.com/user94a/pratico-server/internal/models"
)

// ==========================
// Init Assets
// ==========================
func InitAssets(rootCmd *cobra.Command) {

	assetsCmd := &cobra.Command{
		Use:   "assets",
		Short: "Manage assets",
	}

	assetsCmd.AddCommand(
		listAssetsCmd(),
		createAssetCmd(),
		deleteAssetCmd(),
	)

	rootCmd.AddCommand(assetsCmd)
}

type asset struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Identifier string    `json:"identifier"`
	CreatedAt  time.Time `json:"created_at"`
}

// ==========================
// LIST
// ==========================
func listAssetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := config.ReadToken()
			if err != nil {
				return err
			}

			req, _ := http.NewRequest("GET", config.APIURL()+"/assets", nil)
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

			var list []asset
			if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(list))
			for _, a := range list {
				rows = append(rows, []interface{}{a.ID, a.Name, a.Type, a.Identifier, a.CreatedAt.Format("2006-01-02")})
			}
			output.RenderTable([]string{"ID", "Name", "Type", "Identifier", "Created"}, rows)
			return nil
		},
	}
}

// ==========================
// CREATE
// ==========================
func createAssetCmd() *cobra.Command {

	var name string
	var assetType string
	var identifier string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create asset (seeds its deadlines from templates)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !models.KnownAssetType(assetType) {
				return fmt.Errorf("unknown asset type %q (want car, house or other)", assetType)
			}

			token, err := config.ReadToken()
			if err != nil {
				return err
			}

			payload, _ := json.Marshal(map[string]string{
				"name":       name,
				"type":       assetType,
				"identifier": identifier,
			})

			req, _ := http.NewRequest("POST", config.APIURL()+"/assets", bytes.NewReader(payload))
			req.Header.Set("Authorization", "Bearer "+token)
			req.Header.Set("Content-Type", "application/json")

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			body, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
			}

			var out struct {
				Asset            asset `json:"asset"`
				DeadlinesCreated int   `json:"deadlines_created"`
				Warnings         []struct {
					TemplateID int    `json:"template_id"`
					Reason     string `json:"reason"`
				} `json:"warnings"`
			}
			if err := json.Unmarshal(body, &out); err != nil {
				return err
			}

			fmt.Printf("Created asset %d (%s) with %d deadlines\n", out.Asset.ID, out.Asset.Name, out.DeadlinesCreated)
			for _, warn := range out.Warnings {
				fmt.Printf("warning: template %d: %s\n", warn.TemplateID, warn.Reason)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Asset name")
	cmd.Flags().StringVar(&assetType, "type", "other", "Asset type (car, house, other)")
	cmd.Flags().StringVar(&identifier, "identifier", "", "Optional identifier, e.g. license plate")
	cmd.MarkFlagRequired("name")

	return cmd
}

// ==========================
// DELETE
// ==========================
func deleteAssetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := config.ReadToken()
			if err != nil {
				return err
			}

			req, _ := http.NewRequest("DELETE", config.APIURL()+"/assets/"+args[0], nil)
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusNoContent {
				body, _ := io.ReadAll(resp.Body)
				return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
			}
			fmt.Println("Deleted.")
			return nil
		},
	}
}
