package notifications

import (
	"strings"
	"time"
)

// Job es un aviso por tarea vencida.
type Job struct {
	PetID       string
	PetName     string
	TaskID      string
	Title       string
	Description string
	DateFrom    time.Time

	// Miembros directos de la mascota.
	DirectEmails []string
	// Miembros de cada grupo de la mascota, en orden de grupo.
	GroupEmails []GroupEmails
}

type GroupEmails struct {
	GroupID string
	Emails  []string
}

// Recipients une directos + grupos sin duplicados (case-insensitive),
// en orden de primera aparición. Los vacíos se descartan.
func (j Job) Recipients() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(j.DirectEmails))

	add := func(emails []string) {
		for _, e := range emails {
			e = strings.TrimSpace(e)
			if e == "" {
				continue
			}
			key := strings.ToLower(e)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, e)
		}
	}

	add(j.DirectEmails)
	for _, g := range j.GroupEmails {
		add(g.Emails)
	}
	return out
}
