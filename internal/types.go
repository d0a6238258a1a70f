package internal

// TranslationJob is the unit of work submitted to the executor: one unique
// translatable string plus its language pair. Many document occurrences may
// share the output of a single job.
type TranslationJob struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}
