// Package errors provides structured, actionable errors for vbind.
//
// Every fault the view-model can report carries a registered code that maps
// to a category, a short message and a longer explanation. Faults local to a
// single binding are reported as diagnostics and never abort compilation;
// configuration faults are returned to the caller of vbind.New.
//
// # Error Categories
//
//   - config: invalid construction options (missing or non-composite data)
//   - compile: template problems found while walking the UI tree
//   - runtime: problems found while reacting to events or writes
//   - io: template or data sources that cannot be loaded
//   - protocol: malformed live-session messages
//
// # Usage
//
//	err := errors.New(errors.CodeUnresolvedHandler).
//	    WithWhere(`<button v-on:click="save">`).
//	    WithSuggestion(`Add "save" to Options.Methods`)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR VB010: Event handler method not found
//	//
//	//   <button v-on:click="save">
//	//
//	//   Hint: Add "save" to Options.Methods
package errors
