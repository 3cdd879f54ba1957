// Package negotiate picks a response media type from an Accept header using
// the usual quality and specificity rules. Media-range syntax is parsed with
// goautoneg; ranking is done here so ties resolve deterministically.
package negotiate
