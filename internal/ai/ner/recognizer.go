// Package ner finds person names with the prose statistical tagger.
package ner

import (
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"
)

const labelPerson = "PERSON"

// Recognizer implements ai.EntityRecognizer. The tagging model is loaded once
// in New and shared by every call.
type Recognizer struct {
	model *prose.Model
}

func New() (r *Recognizer, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r, err = nil, fmt.Errorf("loading prose model: %v", rec)
		}
	}()

	doc, err := prose.NewDocument("", prose.WithSegmentation(false))
	if err != nil {
		return nil, fmt.Errorf("loading prose model: %w", err)
	}
	if doc.Model == nil {
		return nil, fmt.Errorf("loading prose model: no model returned")
	}

	return &Recognizer{model: doc.Model}, nil
}

func (r *Recognizer) tag(text string) (*prose.Document, error) {
	return prose.NewDocument(text, prose.UsingModel(r.model), prose.WithSegmentation(false))
}

// People returns PERSON entities in the order they appear.
func (r *Recognizer) People(text string) (people []string, err error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("prose tagger: %v", rec)
		}
	}()

	doc, err := r.tag(text)
	if err != nil {
		return nil, fmt.Errorf("tagging text: %w", err)
	}

	for _, ent := range doc.Entities() {
		if ent.Label != labelPerson {
			continue
		}
		if name := strings.TrimSpace(ent.Text); name != "" {
			people = append(people, name)
		}
	}

	return people, nil
}
