// Package l10n holds the translated strings shown by the Tags view and the
// language tag shared by message formatting and title collation.
package l10n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys.
const (
	AppTags         = "app.tags"
	RenameTitle     = "tags.rename.title"
	RenameSuccess   = "tags.rename.success"
	RenameFailed    = "tags.rename.failed"
	TransferTitle   = "tags.transfer.title"
	TransferSuccess = "tags.transfer.success"
	TransferFailed  = "tags.transfer.failed"
	DeleteSuccess   = "tags.delete.success"
	DeleteFailed    = "tags.delete.failed"
	PruneTitle      = "tags.prune.title"
	PruneConfirm    = "tags.prune.confirm"
	PruneSuccess    = "tags.prune.success"
	PruneFailed     = "tags.prune.failed"
	PruneNone       = "tags.prune.none"
	UnknownTag      = "tags.unknown"
	UnusedCount     = "tags.unused.count"
)

var supported = []language.Tag{language.English, language.German, language.French}

var matcher = language.NewMatcher(supported)

var entries = map[language.Tag]map[string]string{
	language.English: {
		AppTags:         "Tags",
		RenameTitle:     "Choose new name",
		RenameSuccess:   "Tag '%s' successfully renamed to '%s'",
		RenameFailed:    "Failed to update tag",
		TransferTitle:   "Choose destination tag",
		TransferSuccess: "Reassigned courses and assets tagged with '%s' to '%s'",
		TransferFailed:  "Failed to transfer tag",
		DeleteSuccess:   "Deleted '%s'",
		DeleteFailed:    "Failed to delete tag",
		PruneTitle:      "Delete unused tags",
		PruneConfirm:    "Delete %d unused tags?",
		PruneSuccess:    "Deleted %d unused tags",
		PruneFailed:     "Failed to delete unused tags",
		PruneNone:       "No unused tags",
		UnknownTag:      "Unknown tag '%s'",
		UnusedCount:     "%d unused",
	},
	language.German: {
		AppTags:         "Schlagwörter",
		RenameTitle:     "Neuen Namen wählen",
		RenameSuccess:   "Schlagwort '%s' erfolgreich in '%s' umbenannt",
		RenameFailed:    "Schlagwort konnte nicht aktualisiert werden",
		TransferTitle:   "Ziel-Schlagwort wählen",
		TransferSuccess: "Kurse und Assets mit '%s' wurden '%s' zugeordnet",
		TransferFailed:  "Schlagwort konnte nicht übertragen werden",
		DeleteSuccess:   "'%s' gelöscht",
		DeleteFailed:    "Schlagwort konnte nicht gelöscht werden",
		PruneTitle:      "Unbenutzte Schlagwörter löschen",
		PruneConfirm:    "%d unbenutzte Schlagwörter löschen?",
		PruneSuccess:    "%d unbenutzte Schlagwörter gelöscht",
		PruneFailed:     "Unbenutzte Schlagwörter konnten nicht gelöscht werden",
		PruneNone:       "Keine unbenutzten Schlagwörter",
		UnknownTag:      "Unbekanntes Schlagwort '%s'",
		UnusedCount:     "%d unbenutzt",
	},
	language.French: {
		AppTags:         "Étiquettes",
		RenameTitle:     "Choisir un nouveau nom",
		RenameSuccess:   "Étiquette '%s' renommée en '%s'",
		RenameFailed:    "Échec de la mise à jour de l'étiquette",
		TransferTitle:   "Choisir l'étiquette de destination",
		TransferSuccess: "Cours et ressources étiquetés '%s' réaffectés à '%s'",
		TransferFailed:  "Échec du transfert de l'étiquette",
		DeleteSuccess:   "'%s' supprimée",
		DeleteFailed:    "Échec de la suppression de l'étiquette",
		PruneTitle:      "Supprimer les étiquettes inutilisées",
		PruneConfirm:    "Supprimer %d étiquettes inutilisées ?",
		PruneSuccess:    "%d étiquettes inutilisées supprimées",
		PruneFailed:     "Échec de la suppression des étiquettes inutilisées",
		PruneNone:       "Aucune étiquette inutilisée",
		UnknownTag:      "Étiquette inconnue '%s'",
		UnusedCount:     "%d inutilisées",
	},
}

var cat = buildCatalog()

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range entries {
		for key, msg := range msgs {
			// Keys and messages are static; SetString only fails on malformed input.
			if err := b.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// Tag parses a BCP 47 locale and returns it, falling back to English when it
// cannot be parsed. The returned tag keeps its region and variants so it can
// drive collation even for languages without translations.
func Tag(locale string) language.Tag {
	t, err := language.Parse(locale)
	if err != nil {
		return language.English
	}
	return t
}

// Printer returns a message printer for the closest supported language.
func Printer(locale string) *message.Printer {
	_, idx, _ := matcher.Match(Tag(locale))
	return message.NewPrinter(supported[idx], message.Catalog(cat))
}
