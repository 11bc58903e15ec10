package llm

import (
	"fmt"
	"strings"
)

// Pronouns every conjugation set must cover.
var Pronouns = []string{"yo", "tú", "él/ella/usted", "nosotros", "vosotros", "ellos/ellas/ustedes"}

const conjugationPromptFormat = `Generate COMPLETE Spanish verb conjugations for '%[1]s' following this exact structure. Return JSON format:
{
  "verb": "%[1]s",
  "overview": "Brief description of when/how this verb is used",
  "related_verbs": ["similar_verb1", "similar_verb2"],
  "notes": "Special usage patterns, irregularities, or cultural context",
  "conjugations": [
    {"pronoun": "yo", "tense": "present", "mood": "indicative", "form": "hablo"},
    {"pronoun": "yo", "tense": "present", "mood": "subjunctive", "form": "hable"}
  ]
}

MUST generate ALL of these tenses for ALL pronouns (%[2]s):

**INDICATIVE MOOD:**
- Simple: present, preterite, imperfect, future
- Compound: present_perfect, past_perfect, future_perfect

**SUBJUNCTIVE MOOD:**
- Simple: present, imperfect, imperfect_alt (alternative form)
- Compound: present_perfect, past_perfect

**CONDITIONAL MOOD:**
- Simple: simple_conditional
- Compound: conditional_perfect

**IMPERATIVE MOOD:**
- Simple: affirmative_present (for tú, usted, nosotros, vosotros, ustedes only)

This should generate approximately 70-80 conjugations total. Use exact tense names as listed above. Only return valid JSON, no other text.`

const sentencePromptFormat = `Fix any typos and add missing accents to this Spanish sentence, then provide an English translation with grammar notes. Return in this exact JSON format:
{
  "corrected_spanish": "corrected sentence",
  "english_translation": "English translation",
  "grammar_notes": "Brief grammar explanation"
}

Spanish sentence: %s

Only return the JSON, no other text.`

// ConjugationPrompt asks for the full conjugation table of verb.
func ConjugationPrompt(verb string) string {
	return fmt.Sprintf(conjugationPromptFormat, verb, strings.Join(Pronouns, ", "))
}

// SentencePrompt asks for a corrected sentence with translation and notes.
func SentencePrompt(sentence string) string {
	return fmt.Sprintf(sentencePromptFormat, sentence)
}
