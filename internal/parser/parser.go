package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	stderrors "errors" // Standard errors package
	"github.com/mcncl/lsjson/internal/errors" // Custom errors package
	"github.com/mcncl/lsjson/internal/models"
)

// Parse decodes a single JSON document from reader into a value tree.
// Object members keep the order in which they appear in the input.
func Parse(reader io.Reader) (models.Document, error) {
	decoder := json.NewDecoder(reader)
	decoder.UseNumber() // Ensure numbers are read as json.Number

	tok, err := decoder.Token()
	if err != nil {
		if stderrors.Is(err, io.EOF) { // nothing at all was decoded
			return models.Document{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		return models.Document{}, decodeError(err)
	}

	root, err := decodeToken(decoder, tok)
	if err != nil {
		return models.Document{}, decodeError(err)
	}

	// Only whitespace may follow the root value.
	if trailing, err := decoder.Token(); !stderrors.Is(err, io.EOF) {
		if err != nil {
			return models.Document{}, errors.NewParsingError("invalid trailing data after first JSON value", decodeError(err))
		}
		return models.Document{}, errors.NewParsingError(
			fmt.Sprintf("multiple JSON values found at the root (next token %v)", trailing),
			errors.ErrMultipleJSON,
		)
	}

	return models.Document{Root: root}, nil
}

// nextToken reads the next token of a value that has already started, so
// running out of input is always premature.
func nextToken(decoder *json.Decoder) (json.Token, error) {
	tok, err := decoder.Token()
	if stderrors.Is(err, io.EOF) {
		return nil, io.ErrUnexpectedEOF
	}
	return tok, err
}

// decodeToken builds the value that starts with tok, consuming the rest of
// it from decoder.
func decodeToken(decoder *json.Decoder, tok json.Token) (models.Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '[':
			return decodeArray(decoder)
		case '{':
			return decodeObject(decoder)
		}
		return models.Value{}, fmt.Errorf("unexpected delimiter %q", rune(t))
	case bool:
		return models.Bool(t), nil
	case json.Number:
		return decodeNumber(t)
	case string:
		return models.Str(t), nil
	case nil: // JSON null
		return models.Null(), nil
	default: // unreachable with UseNumber
		return models.Other(t), nil
	}
}

func decodeArray(decoder *json.Decoder) (models.Value, error) {
	items := []models.Value{}
	for decoder.More() {
		tok, err := nextToken(decoder)
		if err != nil {
			return models.Value{}, err
		}
		item, err := decodeToken(decoder, tok)
		if err != nil {
			return models.Value{}, err
		}
		items = append(items, item)
	}
	// Consume the closing bracket.
	if _, err := nextToken(decoder); err != nil {
		return models.Value{}, err
	}
	return models.Sequence(items...), nil
}

func decodeObject(decoder *json.Decoder) (models.Value, error) {
	members := []models.Member{}
	for decoder.More() {
		keyTok, err := nextToken(decoder)
		if err != nil {
			return models.Value{}, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return models.Value{}, fmt.Errorf("object key must be a string, got %T", keyTok)
		}
		tok, err := nextToken(decoder)
		if err != nil {
			return models.Value{}, err
		}
		value, err := decodeToken(decoder, tok)
		if err != nil {
			return models.Value{}, err
		}
		members = append(members, models.Member{Key: key, Value: value})
	}
	// Consume the closing brace.
	if _, err := nextToken(decoder); err != nil {
		return models.Value{}, err
	}
	return models.Mapping(members...), nil
}

// decodeNumber keeps integers as their literal and turns anything with a
// fraction or exponent into a float.
func decodeNumber(num json.Number) (models.Value, error) {
	literal := num.String()
	if !strings.ContainsAny(literal, ".eE") {
		return models.IntLiteral(literal), nil
	}
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		var numErr *strconv.NumError
		// Out of range literals saturate to ±Inf.
		if !stderrors.As(err, &numErr) || !stderrors.Is(numErr.Err, strconv.ErrRange) {
			return models.Value{}, fmt.Errorf("invalid number literal %q: %w", literal, err)
		}
	}
	return models.FloatLiteral(literal, f), nil
}

// decodeError converts a decoder failure into a parsing AppError.
func decodeError(err error) error {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return err
	}
	var syntaxError *json.SyntaxError
	if stderrors.As(err, &syntaxError) {
		return errors.NewParsingError(
			fmt.Sprintf("JSON syntax error at offset %d: %v", syntaxError.Offset, syntaxError),
			errors.ErrInvalidJSON,
		)
	}
	if stderrors.Is(err, io.ErrUnexpectedEOF) {
		return errors.NewParsingError("unexpected EOF: JSON document is truncated", errors.ErrInvalidJSON)
	}
	return errors.NewParsingError(fmt.Sprintf("failed to decode JSON: %v", err), errors.ErrInvalidJSON)
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.Document, error) {
	if strings.TrimSpace(jsonString) == "" {
		return models.Document{}, errors.NewInputError("input string is empty or consists only of whitespace", errors.ErrEmptyInput)
	}
	return Parse(strings.NewReader(jsonString))
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string) (models.Document, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.Document{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Document{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	stat, err := file.Stat()
	if err != nil {
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.IsDir() {
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("'%s' is a directory", filePath),
			errors.ErrInvalidFilePath,
		)
	}
	if stat.Size() == 0 {
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	doc, err := Parse(file)
	if err != nil {
		return models.Document{}, err
	}
	doc.Source = filePath
	return doc, nil
}
