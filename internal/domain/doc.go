// Package domain contains the core business entities, value objects, and
// domain logic of the application. It represents the heart of the system,
// independent of any specific infrastructure or delivery mechanism.
//
// The entities here describe what a round generator hands to the game
// (Round, PairSet), what the ingestion flow leaves behind for us to read
// (TutorSession) and what gets recorded when a player checks a pair
// (AnswerRecord). The matching rules themselves live in the matching
// subpackage.
package domain
