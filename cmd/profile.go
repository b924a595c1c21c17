package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spigell/talent-discovery/internal/output"
	"github.com/spigell/talent-discovery/internal/profile"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var errAborted = errors.New("aborted by user")

var (
	profileFormat string
	profileYes    bool
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage stored profiles",
}

var profileCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a profile from flags or interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		in, err := inputFromFlags(cmd)
		if err != nil {
			return err
		}

		if !cmd.Flags().Changed("name") {
			if in, err = promptInput(); err != nil {
				return err
			}
		}

		return withStore(cmd.Context(), func(ctx context.Context, st profile.Store, _ *zap.Logger) error {
			created, err := st.Create(ctx, in)
			if err != nil {
				return err
			}
			return output.Write(os.Stdout, profileFormat, created)
		})
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withStore(cmd.Context(), func(ctx context.Context, st profile.Store, _ *zap.Logger) error {
			profiles, err := st.List(ctx)
			if err != nil {
				return err
			}
			return output.Write(os.Stdout, profileFormat, profiles)
		})
	},
}

var profileGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a single profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(ctx context.Context, st profile.Store, _ *zap.Logger) error {
			p, err := st.Get(ctx, args[0])
			if err != nil {
				return err
			}
			return output.Write(os.Stdout, profileFormat, p)
		})
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update the given fields of a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := updateFromFlags(cmd)
		if err != nil {
			return err
		}

		return withStore(cmd.Context(), func(ctx context.Context, st profile.Store, _ *zap.Logger) error {
			p, err := st.Update(ctx, args[0], u)
			if err != nil {
				return err
			}
			return output.Write(os.Stdout, profileFormat, p)
		})
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(ctx context.Context, st profile.Store, logger *zap.Logger) error {
			p, err := st.Get(ctx, args[0])
			if err != nil {
				return err
			}

			if !profileYes {
				if err := confirm(fmt.Sprintf("Delete profile %q (%s)?", p.Name, p.ID)); err != nil {
					return err
				}
			}

			if err := st.Delete(ctx, p.ID); err != nil {
				return err
			}
			logger.Info("profile deleted", zap.String("id", p.ID), zap.String("name", p.Name))
			return nil
		})
	},
}

var profileImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Create profiles from a YAML or JSON list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening import file: %w", err)
		}
		defer f.Close()

		inputs, err := readInputs(f)
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		return withStore(cmd.Context(), func(ctx context.Context, st profile.Store, logger *zap.Logger) error {
			n, err := importProfiles(ctx, st, inputs)
			logger.Info("profiles imported", zap.Int("created", n), zap.Int("total", len(inputs)))
			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileCreateCmd, profileListCmd, profileGetCmd, profileUpdateCmd, profileDeleteCmd, profileImportCmd)

	profileCmd.PersistentFlags().StringVarP(&profileFormat, "output", "o", output.FormatTable, "output format: table or json")

	for _, c := range []*cobra.Command{profileCreateCmd, profileUpdateCmd} {
		c.Flags().String("name", "", "full name")
		c.Flags().String("bio", "", "short bio")
		c.Flags().String("skills", "", "comma separated skills")
		c.Flags().String("interests", "", "comma separated interests")
		c.Flags().String("github", "", "GitHub profile url")
		c.Flags().String("linkedin", "", "LinkedIn profile url")
	}

	profileDeleteCmd.Flags().BoolVarP(&profileYes, "yes", "y", false, "do not ask for confirmation")
}

func withStore(ctx context.Context, fn func(context.Context, profile.Store, *zap.Logger) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger, config, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	st, err := openStore(config.Store, logger)
	if err != nil {
		return fmt.Errorf("opening the profile store: %w", err)
	}
	defer st.Close()

	return fn(ctx, st, logger)
}

func inputFromFlags(cmd *cobra.Command) (profile.Input, error) {
	flags := cmd.Flags()

	var in profile.Input
	var err error
	get := func(name string) string {
		v, e := flags.GetString(name)
		err = errors.Join(err, e)
		return v
	}

	in.Name = get("name")
	in.Bio = get("bio")
	in.Skills = profile.SplitList(get("skills"))
	in.Interests = profile.SplitList(get("interests"))
	in.GitHubURL = get("github")
	in.LinkedInURL = get("linkedin")

	return in, err
}

func updateFromFlags(cmd *cobra.Command) (profile.Update, error) {
	flags := cmd.Flags()

	var u profile.Update
	var err error
	str := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, e := flags.GetString(name)
		err = errors.Join(err, e)
		return &v
	}
	list := func(name string) *[]string {
		v := str(name)
		if v == nil {
			return nil
		}
		items := profile.SplitList(*v)
		return &items
	}

	u.Name = str("name")
	u.Bio = str("bio")
	u.Skills = list("skills")
	u.Interests = list("interests")
	u.GitHubURL = str("github")
	u.LinkedInURL = str("linkedin")

	if err != nil {
		return u, err
	}
	if u == (profile.Update{}) {
		return u, errors.New("nothing to update: pass at least one field flag")
	}

	return u, nil
}

func promptInput() (profile.Input, error) {
	required := func(field string) func(string) error {
		return func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%s is required", field)
			}
			return nil
		}
	}

	fields := []struct {
		prompt promptui.Prompt
		set    func(*profile.Input, string)
	}{
		{promptui.Prompt{Label: "Name", Validate: required("name")}, func(in *profile.Input, v string) { in.Name = v }},
		{promptui.Prompt{Label: "Bio", Validate: required("bio")}, func(in *profile.Input, v string) { in.Bio = v }},
		{promptui.Prompt{Label: "Skills (comma separated)"}, func(in *profile.Input, v string) { in.Skills = profile.SplitList(v) }},
		{promptui.Prompt{Label: "Interests (comma separated)"}, func(in *profile.Input, v string) { in.Interests = profile.SplitList(v) }},
		{promptui.Prompt{Label: "GitHub URL"}, func(in *profile.Input, v string) { in.GitHubURL = v }},
		{promptui.Prompt{Label: "LinkedIn URL"}, func(in *profile.Input, v string) { in.LinkedInURL = v }},
	}

	var in profile.Input
	for _, f := range fields {
		value, err := f.prompt.Run()
		if err != nil {
			return in, promptError(err)
		}
		f.set(&in, value)
	}

	if err := confirm(fmt.Sprintf("Create profile for %s?", strings.TrimSpace(in.Name))); err != nil {
		return in, err
	}

	return in, nil
}

func confirm(label string) error {
	prompt := promptui.Select{
		Label: label,
		Items: []string{PromptYes, PromptNo},
	}

	_, answer, err := prompt.Run()
	if err != nil {
		return promptError(err)
	}
	if answer != PromptYes {
		return errAborted
	}
	return nil
}

func promptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
		return errAborted
	}
	return fmt.Errorf("prompt failed: %w", err)
}

// readInputs decodes a list of profiles. JSON is accepted as it is valid YAML.
func readInputs(r io.Reader) ([]profile.Input, error) {
	var inputs []profile.Input
	if err := yaml.NewDecoder(r).Decode(&inputs); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("file is empty")
		}
		return nil, err
	}
	return inputs, nil
}

// importProfiles validates every entry before creating any, so a bad file
// leaves the store untouched.
func importProfiles(ctx context.Context, st profile.Store, inputs []profile.Input) (int, error) {
	var errs []error
	for i, in := range inputs {
		if err := in.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("entry %d: %w", i+1, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return 0, err
	}

	for i, in := range inputs {
		if _, err := st.Create(ctx, in); err != nil {
			return i, fmt.Errorf("entry %d: %w", i+1, err)
		}
	}

	return len(inputs), nil
}
