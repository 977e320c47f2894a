package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/noah-isme/curriculum-api/internal/dto"
)

var treeCmd = &cobra.Command{
	Use:   "tree <file.yaml|file.json>",
	Short: "Append a category tree to a program",
	Long: `Tree reads a nested category structure and inserts it under the program given by
--course-id. The file is either a list of nodes or a mapping with a "categories" key;
every node has a "name" and optional "children".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		courseID, _ := cmd.Flags().GetInt64("course-id")
		if courseID <= 0 {
			return fmt.Errorf("--course-id is required")
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		req, err := parseTree(data)
		if err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}

		created, err := container.Courses.AppendCategories(cmd.Context(), courseID, req)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), created)
	},
}

func init() {
	treeCmd.Flags().Int64("course-id", 0, "program to append the categories to")
	rootCmd.AddCommand(treeCmd)
}

// parseTree decodes a YAML or JSON category tree. Unknown keys are rejected.
func parseTree(data []byte) (dto.AppendCategoriesRequest, error) {
	var req dto.AppendCategoriesRequest
	if err := decodeStrict(data, &req); err == nil {
		return req, nil
	}

	var nodes []dto.CategoryNode
	if err := decodeStrict(data, &nodes); err != nil {
		return req, err
	}
	req.Categories = nodes
	return req, nil
}

func decodeStrict(data []byte, out interface{}) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("file is empty")
		}
		return err
	}
	return nil
}
