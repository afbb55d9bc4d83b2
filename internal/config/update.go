package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/elliotbe/gitinit/internal/errors"
	"gopkg.in/yaml.v3"
)

// File and directory modes for stored config. The file holds an OAuth token.
const (
	fileMode = 0o600
	dirMode  = 0o700
)

// SetValue sets one top-level key in the config file, keeping every other
// key and comment in place. The file is created when missing.
func SetValue(path, key, value string) error {
	root, err := readNode(path)
	if err != nil {
		return err
	}
	doc := root.Content[0]

	if node := findMapValue(doc, key); node != nil {
		node.Kind = yaml.ScalarNode
		node.Tag = "!!str"
		node.Value = value
		node.Content = nil
	} else {
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value},
		)
	}

	return writeNode(path, root)
}

// RemoveKey deletes a top-level key from the config file. Missing files and
// keys are not errors.
func RemoveKey(path, key string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	root, err := readNode(path)
	if err != nil {
		return err
	}
	doc := root.Content[0]

	for i := 0; i < len(doc.Content)-1; i += 2 {
		if doc.Content[i].Value == key {
			doc.Content = append(doc.Content[:i], doc.Content[i+2:]...)
			return writeNode(path, root)
		}
	}
	return nil
}

// readNode parses path into a document node whose first child is a mapping.
func readNode(path string) (*yaml.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file", "Check permissions on "+path)
	}

	var root yaml.Node
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &root); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to parse config file", "Check the YAML syntax in "+path)
		}
	}

	if root.Kind == 0 {
		root = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}},
		}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Expected a mapping at the top of %s", path),
			"Delete the file to start over")
	}
	return &root, nil
}

func writeNode(path string, root *yaml.Node) error {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(root); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to encode config", "")
	}
	encoder.Close()

	return writeFile(path, buf.Bytes())
}

// writeFile replaces path atomically through a temp file in the same
// directory.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to create config directory", "Check permissions on "+dir)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.yaml")
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write config file", "Check permissions on "+dir)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to write config file", "")
	}
	if err := tmp.Chmod(fileMode); err != nil {
		tmp.Close()
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to write config file", "")
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to write config file", "")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to save config file", "Check permissions on "+path)
	}
	return nil
}

// findMapValue finds a value in a mapping node by key name.
func findMapValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i < len(node.Content)-1; i += 2 {
		if node.Content[i].Kind == yaml.ScalarNode && node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}
