package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/disc-ucn/firma/pkg/signature"
)

// fieldFlags maps each field flag to the signature field it sets.
var fieldFlags = []struct {
	name  string
	field signature.Field
	usage string
}{
	{"name", signature.FieldFullName, "Full name"},
	{"email", signature.FieldEmail, "Institutional email"},
	{"phone", signature.FieldPhone, "Phone number"},
	{"orcid", signature.FieldORCID, "ORCID iD"},
	{"website", signature.FieldWebsite, "Personal website URL"},
	{"linkedin", signature.FieldLinkedIn, "LinkedIn profile URL"},
	{"scholar", signature.FieldGoogleScholar, "Google Scholar profile URL"},
	{"link", signature.FieldAdditionalLink, "Additional link URL"},
	{"link-text", signature.FieldAdditionalLinkText, "Text shown for the additional link"},
}

// addDataFlags registers the data file flag and the field overrides on cmd.
func addDataFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "YAML file with the signature data (- for stdin)")
	for _, f := range fieldFlags {
		cmd.Flags().String(f.name, "", f.usage)
	}
	cmd.Flags().StringArray("position", nil, "Position line, repeatable (max 3)")
	cmd.Flags().Bool("ciara", false, "Add the CIARA membership badge")
}

// loadData reads the data file, if any, and applies the field flags on top.
// Flags are applied through the same operations the editor uses, so input
// caps and slot limits hold for both.
func loadData(cmd *cobra.Command) (signature.Data, error) {
	d := signature.Empty()

	path, _ := cmd.Flags().GetString("file")
	if path != "" {
		var err error
		if d, err = readDataFile(cmd.InOrStdin(), path); err != nil {
			return d, err
		}
	}

	var err error
	for _, f := range fieldFlags {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		v, _ := cmd.Flags().GetString(f.name)
		if d, err = d.SetField(f.field, v); err != nil {
			return d, err
		}
	}

	if cmd.Flags().Changed("ciara") {
		ciara, _ := cmd.Flags().GetBool("ciara")
		d.CiaraMember = ciara
	}

	if cmd.Flags().Changed("position") {
		positions, _ := cmd.Flags().GetStringArray("position")
		if d, err = withPositions(d, positions); err != nil {
			return d, err
		}
	}

	return d, nil
}

// withPositions replaces the position slots of d with positions.
func withPositions(d signature.Data, positions []string) (signature.Data, error) {
	if len(positions) > signature.MaxPositions {
		return d, fmt.Errorf("%w: got %d, max %d", signature.ErrTooManyPositions, len(positions), signature.MaxPositions)
	}
	d = d.Clone()
	d.Positions = []string{""}
	var err error
	for i, p := range positions {
		if i > 0 {
			if d, err = d.AddPosition(); err != nil {
				return d, err
			}
		}
		if d, err = d.SetPosition(i, p); err != nil {
			return d, err
		}
	}
	return d, nil
}

func readDataFile(stdin io.Reader, path string) (signature.Data, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return signature.Empty(), fmt.Errorf("reading %s: %w", path, err)
	}

	var d signature.Data
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil && !errors.Is(err, io.EOF) {
		return signature.Empty(), fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(d.Positions) > signature.MaxPositions {
		return signature.Empty(), fmt.Errorf("%s: %w: got %d, max %d", path, signature.ErrTooManyPositions, len(d.Positions), signature.MaxPositions)
	}
	return d.Normalize(), nil
}
