// Package srs implements the review schedule for words and knowledge points.
//
// Items move through seven stages. Stages 0 through 5 each carry an offset in
// days, counted from the calendar day of the last review; stage 6 is mastered
// and never becomes due again. Remembering an item advances it one stage,
// forgetting resets it to stage 0 and undo steps back one stage.
package srs
