package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gravitrone/campus/cli/internal/collection"
	"github.com/gravitrone/campus/cli/internal/record"
	"github.com/gravitrone/campus/cli/internal/resources"
)

// CollectionCmds returns one command group per campus resource.
func CollectionCmds() []*cobra.Command {
	var cmds []*cobra.Command
	for _, res := range resources.All(resources.Options{}) {
		cmds = append(cmds, CollectionCmd(res))
	}
	return cmds
}

// CollectionCmd returns the `campus <resource>` command group. Only the
// name and labels of res are used here; the runtime definition is rebuilt
// from the loaded config.
func CollectionCmd(res collection.Resource) *cobra.Command {
	cmd := &cobra.Command{
		Use:   res.Name,
		Short: fmt.Sprintf("List, create, update and delete %s", res.Name),
	}
	cmd.AddCommand(collectionListCmd(res))
	cmd.AddCommand(collectionCreateCmd(res))
	cmd.AddCommand(collectionUpdateCmd(res))
	cmd.AddCommand(collectionDeleteCmd(res))
	return cmd
}

// run bundles one controller with the env it was built from.
type run struct {
	env  *Env
	ctrl *collection.Controller
	form *record.Inputs
}

type runOptions struct {
	collegeID int64
	// render prints the collection after every read; nil prints nothing.
	render    io.Writer
	confirmer collection.Confirmer
}

func newRun(c *cobra.Command, name string, opts runOptions) (*run, error) {
	env, err := LoadEnv(c, c.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	res, err := resources.Lookup(name, env.ResourceOptions(opts.collegeID))
	if err != nil {
		_ = env.Close()
		return nil, err
	}
	var renderer collection.ListRenderer
	if opts.render != nil {
		renderer = textRenderer{out: opts.render, res: res, opts: cardOptions(env)}
	}
	form := record.NewInputs()
	ctrl, err := collection.New(collection.Config{
		Resource:  res,
		Transport: env.Client,
		Renderer:  renderer,
		Form:      form,
		Confirmer: opts.confirmer,
		Notifier:  lineNotifier{out: c.OutOrStdout()},
		Logger:    env.Logger,
	})
	if err != nil {
		_ = env.Close()
		return nil, err
	}
	return &run{env: env, ctrl: ctrl, form: form}, nil
}

func (r *run) Close() error {
	return r.env.Close()
}

func cardOptions(env *Env) collection.CardOptions {
	return collection.CardOptions{
		Placeholder: env.Config.Placeholder,
		DateLayout:  env.Config.DateFormat,
	}
}

func collectionListCmd(res collection.Resource) *cobra.Command {
	var collegeID int64
	cmd := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s", res.Name),
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			r, err := newRun(c, res.Name, runOptions{
				collegeID: collegeID,
				render:    c.OutOrStdout(),
			})
			if err != nil {
				return err
			}
			defer r.Close()

			return r.ctrl.Load(c.Context())
		},
	}
	if res.Name == resources.Events {
		cmd.Flags().Int64Var(&collegeID, "college-id", 0, "only events of this college")
	}
	return cmd
}

func collectionCreateCmd(res collection.Resource) *cobra.Command {
	var fields []string
	cmd := &cobra.Command{
		Use:   "create",
		Short: fmt.Sprintf("Create a %s", res.Singular),
		Long: fmt.Sprintf("Create a %s from --field name=value pairs, or prompt for each field (%s).",
			res.Singular, fieldNames(res.Fields)),
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			r, err := newRun(c, res.Name, runOptions{})
			if err != nil {
				return err
			}
			defer r.Close()

			if err := fillForm(r, fields); err != nil {
				return err
			}
			return submit(c, r)
		},
	}
	cmd.Flags().StringArrayVarP(&fields, "field", "f", nil, "field value as name=value (repeatable)")
	return cmd
}

func collectionUpdateCmd(res collection.Resource) *cobra.Command {
	var fields []string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: fmt.Sprintf("Update a %s", res.Singular),
		Long: fmt.Sprintf("Update a %s. --field pairs override the stored values; without them every field is prompted, pre-filled.",
			res.Singular),
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			r, err := newRun(c, res.Name, runOptions{})
			if err != nil {
				return err
			}
			defer r.Close()

			if err := r.ctrl.Load(c.Context()); err != nil {
				return err
			}
			rec, ok := r.ctrl.Lookup(id)
			if !ok {
				return fmt.Errorf("%s #%d not found", res.Singular, id)
			}
			if err := r.ctrl.BeginEdit(rec); err != nil {
				return err
			}
			if err := fillForm(r, fields); err != nil {
				return err
			}
			return submit(c, r)
		},
	}
	cmd.Flags().StringArrayVarP(&fields, "field", "f", nil, "field value as name=value (repeatable)")
	return cmd
}

func collectionDeleteCmd(res collection.Resource) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s", res.Singular),
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var confirmer collection.Confirmer = collection.AlwaysConfirm
			if !yes {
				if !interactive() {
					return fmt.Errorf("refusing to delete %s #%d without confirmation; pass --yes", res.Singular, id)
				}
				confirmer = promptConfirmer
			}

			r, err := newRun(c, res.Name, runOptions{confirmer: confirmer})
			if err != nil {
				return err
			}
			defer r.Close()

			// The confirmation names the record, so read it first.
			if err := r.ctrl.Load(c.Context()); err != nil {
				return err
			}
			deleted, err := r.ctrl.Delete(c.Context(), id)
			if errors.Is(err, collection.ErrStale) {
				fmt.Fprintf(c.ErrOrStderr(), "warning: %v\n", err)
				return nil
			}
			if err != nil {
				return err
			}
			if !deleted {
				fmt.Fprintln(c.OutOrStdout(), "aborted")
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// fillForm applies --field pairs, or prompts when none were given.
func fillForm(r *run, fields []string) error {
	spec := r.ctrl.Resource().Fields
	if len(fields) > 0 {
		return applyFieldFlags(r.form, spec, fields)
	}
	if !interactive() {
		return fmt.Errorf("no fields given; pass --field name=value (fields: %s)", fieldNames(spec))
	}
	return promptForm(r.form, spec)
}

func submit(c *cobra.Command, r *run) error {
	err := r.ctrl.Submit(c.Context())
	if errors.Is(err, collection.ErrStale) {
		fmt.Fprintf(c.ErrOrStderr(), "warning: %v\n", err)
		return nil
	}
	return err
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
