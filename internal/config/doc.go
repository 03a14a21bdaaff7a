// Package config loads server settings from SCRY_* environment variables, an
// optional config.yaml and a development .env file.
//
// The tutor section decides where rounds come from. In remote mode the
// tutoring service supplies rounds, validates sessions and receives answers.
// In local mode rounds are generated with Gemini from session material
// stored in the database, so the llm section must be filled in.
package config
