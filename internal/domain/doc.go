// Package domain contains the core entities of the knowledge base: vocabulary
// words, knowledge points (notes), the category outline and daily tasks. It is
// independent of any storage or delivery mechanism; scheduling, outline and
// task rules live in the srs, outline and daily subpackages.
package domain
