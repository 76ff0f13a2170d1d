// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/urfave/cli/v3"
)

type FlagValidatorType func(any) error

// FlagValidators chains per-flag validators, stopping at the first failure.
func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// GlobalFlagsValidator runs the cross-flag checks that single-flag Validator
// hooks cannot express.
func GlobalFlagsValidator(ctx context.Context, c *cli.Command) error {
	if c.Int("padding") < 0 {
		return errors.New("padding cannot be negative")
	}
	return nil
}

// validOutputs are the accepted --output values.
var validOutputs = []string{"json", "raw", "text", "yaml"}

// OutputValidator rejects --output values outside the supported formats.
func OutputValidator(value any) error {
	s, _ := value.(string)
	if !slices.Contains(validOutputs, s) {
		return fmt.Errorf("must be one of %v", validOutputs)
	}
	return nil
}
