package create

import (
	"strings"

	"github.com/kingrea/changeset/internal/changeset"
	"github.com/kingrea/changeset/internal/logbook"
)

const (
	msgNoChanges       = "No changed files detected."
	msgConfirm         = "Is this your desired changeset?"
	msgAdded           = "Changeset added! - you can now commit it"
	msgAddedCommitted  = "Changeset added and committed"
	msgEditHint        = "If you want to modify or expand on the changeset summary, you can find it here"
	msgDependentsNote  = "Note: All dependents of these packages that will be incompatible with the new version will be patch bumped when this changeset is applied."
	msgSummaryHeader   = "=== Summary of changesets ==="
	emptyChangesetMark = "Empty "
)

var majorReminder = []string{
	"This Changeset includes a major change and we STRONGLY recommend adding more information to the changeset:",
	"WHAT the breaking change is",
	"WHY the change was made",
	"HOW a consumer should update their code",
}

// printPreview shows the releases grouped by severity, most significant first.
func printPreview(log *logbook.Logbook, cs changeset.Changeset, multiplePackages bool) {
	log.Log("%s", msgSummaryHeader)
	for _, bump := range []changeset.BumpType{changeset.BumpMajor, changeset.BumpMinor, changeset.BumpPatch} {
		if names := cs.ByType(bump); len(names) > 0 {
			log.Log("%s: %s", bump, strings.Join(names, ", "))
		}
	}
	if multiplePackages {
		log.Log("%s", msgDependentsNote)
	}
}

func addedMessage(empty, committed bool) string {
	msg := msgAdded
	if committed {
		msg = msgAddedCommitted
	}
	if empty {
		msg = emptyChangesetMark + msg
	}
	return msg
}
