package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Kimen6931/BlockLocker/internal/api/request"
	"github.com/Kimen6931/BlockLocker/internal/api/response"
	"github.com/Kimen6931/BlockLocker/internal/model"
)

func newProtectionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "protection",
		Aliases: []string{"p"},
		Short:   "Protection management commands",
	}

	cmd.AddCommand(newProtectionGetCmd())
	cmd.AddCommand(newProtectionPutCmd())
	cmd.AddCommand(newProtectionDeleteCmd())

	return cmd
}

func protectionPath(id string) string {
	return "/api/v1/protections/" + url.PathEscape(id)
}

func newProtectionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a protection and its signs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Protection

			if err := client.Get(cmd.Context(), protectionPath(args[0]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newProtectionPutCmd() *cobra.Command {
	var (
		file     string
		location string
		signType string
		lines    []string
	)

	cmd := &cobra.Command{
		Use:   "put <id>",
		Short: "Create or replace a protection",
		Long: `Create or replace a protection.

Either pass a JSON request body with --file (use - for stdin), or describe a
single sign with --at, --type and one --line per sign line. Lines are read
the way they are written on a sign: [Everyone], [group] for a group, Name for
a player, or Name#uuid for a player with a known id.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req request.PutProtectionRequest
			var err error
			if file != "" {
				req, err = readRequestFile(file, cmd.InOrStdin())
			} else {
				req, err = buildSignRequest(location, signType, lines)
			}
			if err != nil {
				return err
			}

			var result response.Protection
			if err := client.Put(cmd.Context(), protectionPath(args[0]), req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON request body file, - for stdin")
	cmd.Flags().StringVar(&location, "at", "", "Sign location as world:x,y,z")
	cmd.Flags().StringVar(&signType, "type", string(model.SignTypePrivate), "Sign type: private, more_users")
	cmd.Flags().StringArrayVar(&lines, "line", nil, "Sign line (repeatable)")
	cmd.MarkFlagsMutuallyExclusive("file", "at")

	return cmd
}

func newProtectionDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a protection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(cmd.Context(), protectionPath(args[0])); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage("Deleted protection " + args[0])
			return nil
		},
	}
}

func readRequestFile(path string, stdin io.Reader) (request.PutProtectionRequest, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return request.PutProtectionRequest{}, err
		}
		defer f.Close()
		r = f
	}

	var req request.PutProtectionRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return request.PutProtectionRequest{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return req, nil
}

func buildSignRequest(location, signType string, lines []string) (request.PutProtectionRequest, error) {
	if location == "" {
		return request.PutProtectionRequest{}, errors.New("either --file or --at is required")
	}
	loc, err := parseLocation(location)
	if err != nil {
		return request.PutProtectionRequest{}, err
	}

	profiles := make([]request.Profile, 0, len(lines))
	for _, line := range lines {
		profiles = append(profiles, parseLine(line))
	}

	return request.PutProtectionRequest{Signs: []request.Sign{{
		Location: loc,
		Type:     signType,
		Profiles: profiles,
	}}}, nil
}

// parseLocation parses world:x,y,z
func parseLocation(s string) (model.Location, error) {
	world, coords, ok := strings.Cut(s, ":")
	parts := strings.Split(coords, ",")
	if !ok || world == "" || len(parts) != 3 {
		return model.Location{}, fmt.Errorf("invalid location %q, want world:x,y,z", s)
	}

	var xyz [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return model.Location{}, fmt.Errorf("invalid location %q: %w", s, err)
		}
		xyz[i] = n
	}
	return model.Location{World: world, X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

// parseLine reads one sign line
func parseLine(line string) request.Profile {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
		inner := line[1 : len(line)-1]
		if strings.EqualFold(inner, "everyone") {
			return request.Profile{Kind: request.ProfileEveryone}
		}
		return request.Profile{Kind: request.ProfileGroup, Group: inner}
	}
	if name, id, ok := strings.Cut(line, "#"); ok {
		return request.Profile{Kind: request.ProfilePlayer, Name: name, ID: id}
	}
	return request.Profile{Kind: request.ProfilePlayer, Name: line}
}
