package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var errNotFound = errors.New("not found")

var validate = validator.New()

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readJSON decodes one JSON document from stdin, rejecting unknown fields
func readJSON(cmd *cobra.Command, v any) error {
	dec := json.NewDecoder(cmd.InOrStdin())
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("failed to read JSON input: %w", err)
	}
	return nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

// record wires get/create/update/delete commands for one record type.
// T is the stored record, I the create input and P the partial update.
type record[T, I, P any] struct {
	noun string

	get    func(ctx context.Context, id int64) (*T, error)
	create func(ctx context.Context, in I) (*T, error)
	update func(ctx context.Context, id int64, patch P) (*T, error)
	delete func(ctx context.Context, id int64) error

	// validatePatch checks present fields of a patch
	validatePatch func(patch P) error
}

func (r record[T, I, P]) commands(c *cli) []*cobra.Command {
	return []*cobra.Command{
		{
			Use:   "get <id>",
			Short: fmt.Sprintf("Show one %s", r.noun),
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				ctx, cancel := c.commandContext(cmd)
				defer cancel()
				return showOne(cmd, r.noun, args[0], func() (*T, error) { return r.get(ctx, id) })
			},
		},
		{
			Use:   "create",
			Short: fmt.Sprintf("Create a %s from JSON on stdin", r.noun),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				var in I
				if err := readJSON(cmd, &in); err != nil {
					return err
				}
				if err := validate.Struct(in); err != nil {
					return fmt.Errorf("invalid %s: %w", r.noun, err)
				}

				ctx, cancel := c.commandContext(cmd)
				defer cancel()

				created, err := r.create(ctx, in)
				if err != nil {
					return err
				}
				log.Info().Str("record", r.noun).Msg("Created")
				return printJSON(cmd, created)
			},
		},
		{
			Use:   "update <id>",
			Short: fmt.Sprintf("Apply a partial JSON update from stdin to a %s", r.noun),
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				var patch P
				if err := readJSON(cmd, &patch); err != nil {
					return err
				}
				if r.validatePatch != nil {
					if err := r.validatePatch(patch); err != nil {
						return fmt.Errorf("invalid %s update: %w", r.noun, err)
					}
				}

				ctx, cancel := c.commandContext(cmd)
				defer cancel()
				return showOne(cmd, r.noun, args[0], func() (*T, error) { return r.update(ctx, id, patch) })
			},
		},
		{
			Use:   "delete <id>",
			Short: fmt.Sprintf("Delete a %s", r.noun),
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				ctx, cancel := c.commandContext(cmd)
				defer cancel()

				if err := r.delete(ctx, id); err != nil {
					return err
				}
				log.Info().Str("record", r.noun).Int64("id", id).Msg("Deleted")
				return nil
			},
		},
	}
}

// showOne prints the record or reports it missing
func showOne[T any](cmd *cobra.Command, noun, key string, fetch func() (*T, error)) error {
	v, err := fetch()
	if err != nil {
		return err
	}
	if v == nil {
		return fmt.Errorf("%s %s: %w", noun, key, errNotFound)
	}
	return printJSON(cmd, v)
}

// listCmd wires a list command over a repository read
func listCmd[T any](c *cli, use, short string, list func(ctx context.Context, cmd *cobra.Command, args []string) ([]T, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.commandContext(cmd)
			defer cancel()

			items, err := list(ctx, cmd, args)
			if err != nil {
				return err
			}
			log.Debug().Int("count", len(items)).Msg("Listed records")
			return printJSON(cmd, items)
		},
	}
}

// validateField checks a present optional value against a validator tag
func validateField(name string, set bool, value any, tag string) error {
	if !set {
		return nil
	}
	if err := validate.Var(value, tag); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
