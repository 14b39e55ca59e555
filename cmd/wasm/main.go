//go:build js && wasm
// +build js,wasm

package main

import (
	"fmt"
	"syscall/js"

	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/chordtype"
	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/edits"
	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/tokenizer"
	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/transpose"
)

// Error codes returned to JavaScript
const (
	ErrorNone = iota
	ErrorInvalidArgs
	ErrorInvalidDirection
	ErrorInvalidToken
)

// Finds the chords of a block of text.
// Args: text, baseOffset? (UTF-16 units of text within its document)
// Returns: {error: number, data: array | string}
func chordsheetsTokenize(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeString {
		return makeErrorResponse(ErrorInvalidArgs, "Expected arguments: text, baseOffset?")
	}
	base := 0
	if len(args) > 1 && !args[1].IsUndefined() && !args[1].IsNull() {
		if args[1].Type() != js.TypeNumber {
			return makeErrorResponse(ErrorInvalidArgs, "baseOffset must be a number")
		}
		base = args[1].Int()
		if base < 0 {
			return makeErrorResponse(ErrorInvalidArgs, fmt.Sprintf("Invalid baseOffset: %d", base))
		}
	}

	text := args[0].String()
	toks := tokenizer.UTF16Spans(text, tokenizer.Tokens(text, 0))

	tokenArray := js.Global().Get("Array").New()
	for i, tok := range toks {
		obj := js.Global().Get("Object").New()
		obj.Set("value", tok.Value)
		obj.Set("tonic", tok.Tonic)
		obj.Set("quality", tok.Quality)
		obj.Set("from", base+tok.Span.From)
		obj.Set("to", base+tok.Span.To)
		tokenArray.SetIndex(i, obj)
	}
	return makeResponse(tokenArray)
}

// Transposes one chord a semitone.
// Args: token (object with value, or a string), direction ("up" | "down")
// Returns: {error: number, data: string}
func chordsheetsTranspose(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return makeErrorResponse(ErrorInvalidArgs, "Expected 2 arguments: token, direction")
	}
	d, code, err := parseDirection(args[1])
	if err != nil {
		return makeErrorResponse(code, err.Error())
	}
	tok, err := tokenFromJS(args[0])
	if err != nil {
		return makeErrorResponse(ErrorInvalidToken, err.Error())
	}
	return makeResponse(transpose.Transpose(tok, d))
}

// Builds the edits that transpose every token a semitone. Offsets pass
// through unchanged, so UTF-16 spans from chordsheetsTokenize stay UTF-16.
// Args: tokens (array), direction ("up" | "down")
// Returns: {error: number, data: array | string}
func chordsheetsBuildEditBatch(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return makeErrorResponse(ErrorInvalidArgs, "Expected 2 arguments: tokens, direction")
	}
	d, code, err := parseDirection(args[1])
	if err != nil {
		return makeErrorResponse(code, err.Error())
	}
	tokensJS := args[0]
	if tokensJS.Type() != js.TypeObject {
		return makeErrorResponse(ErrorInvalidArgs, "tokens must be an Array")
	}

	length := tokensJS.Length()
	toks := make([]tokenizer.ChordToken, length)
	for i := 0; i < length; i++ {
		tok, err := tokenFromJS(tokensJS.Index(i))
		if err != nil {
			return makeErrorResponse(ErrorInvalidToken, fmt.Sprintf("tokens element %d: %v", i, err))
		}
		toks[i] = tok
	}

	editArray := js.Global().Get("Array").New()
	for i, e := range edits.Build(toks, d) {
		obj := js.Global().Get("Object").New()
		obj.Set("from", e.From)
		obj.Set("to", e.To)
		obj.Set("insert", e.Insert)
		editArray.SetIndex(i, obj)
	}
	return makeResponse(editArray)
}

func parseDirection(v js.Value) (transpose.Direction, int, error) {
	if v.Type() != js.TypeString {
		return 0, ErrorInvalidArgs, fmt.Errorf("direction must be a string")
	}
	d, err := transpose.ParseDirection(v.String())
	if err != nil {
		return 0, ErrorInvalidDirection, err
	}
	return d, ErrorNone, nil
}

// tokenFromJS reads a token object ({value, tonic?, quality?, from, to})
// or a bare chord string.
func tokenFromJS(v js.Value) (tokenizer.ChordToken, error) {
	if v.Type() == js.TypeString {
		s := v.String()
		return tokenizer.ChordToken{Value: s, Span: tokenizer.Span{To: len(s)}}, nil
	}
	if v.Type() != js.TypeObject {
		return tokenizer.ChordToken{}, fmt.Errorf("token must be an object or a string")
	}
	value := v.Get("value")
	if value.Type() != js.TypeString {
		return tokenizer.ChordToken{}, fmt.Errorf("token.value must be a string")
	}
	tok := tokenizer.ChordToken{
		Value:   value.String(),
		Tonic:   optionalString(v.Get("tonic")),
		Quality: optionalString(v.Get("quality")),
	}
	from, to := v.Get("from"), v.Get("to")
	if from.Type() == js.TypeNumber && to.Type() == js.TypeNumber {
		tok.Span = tokenizer.Span{From: from.Int(), To: to.Int()}
	}
	return tok, nil
}

func optionalString(v js.Value) string {
	if v.Type() == js.TypeString {
		return v.String()
	}
	return ""
}

func makeResponse(data interface{}) js.Value {
	result := js.Global().Get("Object").New()
	result.Set("error", ErrorNone)
	result.Set("data", data)
	return result
}

func makeErrorResponse(errorCode int, message string) js.Value {
	result := js.Global().Get("Object").New()
	result.Set("error", errorCode)
	result.Set("data", message)
	return result
}

func main() {
	console := js.Global().Get("console")
	if !console.IsUndefined() {
		console.Call("log", "ChordSheets WASM module initializing...")
	}

	if err := chordtype.RegisterCustomChordTypes(); err != nil {
		if !console.IsUndefined() {
			console.Call("error", "Chord type registration failed: "+err.Error())
		}
		return
	}

	done := make(chan struct{})

	js.Global().Set("chordsheetsTokenize", js.FuncOf(chordsheetsTokenize))
	js.Global().Set("chordsheetsTranspose", js.FuncOf(chordsheetsTranspose))
	js.Global().Set("chordsheetsBuildEditBatch", js.FuncOf(chordsheetsBuildEditBatch))

	window := js.Global().Get("window")
	if !window.IsUndefined() {
		eventInit := js.Global().Get("Object").New()
		event := js.Global().Get("CustomEvent").New("wasmReady", eventInit)
		window.Call("dispatchEvent", event)
	} else if !console.IsUndefined() {
		console.Call("error", "window object is undefined")
	}

	if !console.IsUndefined() {
		console.Call("log", fmt.Sprintf("ChordSheets WASM module ready (%d chord types)", chordtype.Default().Len()))
	}

	<-done
}
