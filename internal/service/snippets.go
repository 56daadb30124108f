// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"fmt"

	"github.com/olegiv/userbird/internal/model"
)

// Snippets are the install snippets shown after a form is created.
type Snippets struct {
	HTML   string `json:"html"`
	Script string `json:"script"`
	React  string `json:"react"`
}

// Snippets returns the install snippets for a form id.
func (s *FormService) Snippets(formID string) Snippets {
	return BuildSnippets(s.publicURL, formID)
}

// BuildSnippets renders install snippets for a form served from baseURL.
func BuildSnippets(baseURL, formID string) Snippets {
	triggerID := model.TriggerID(formID)
	scriptURL := baseURL + "/widget.js"

	return Snippets{
		HTML: fmt.Sprintf(`<button id="%s">Feedback</button>`, triggerID),
		Script: fmt.Sprintf(`<script>
  (function(w,d,s){
    w.UserBird=w.UserBird||{};
    w.UserBird.formId="%s";
    s=d.createElement('script');
    s.src='%s';
    d.head.appendChild(s);
  })(window,document);
</script>`, formID, scriptURL),
		React: fmt.Sprintf(`import { useEffect } from 'react';

function App() {
  useEffect(() => {
    window.UserBird = window.UserBird || {};
    window.UserBird.formId = "%s";

    const script = document.createElement('script');
    script.src = '%s';
    document.head.appendChild(script);
  }, []);

  return (
    <button id="%s">
      Feedback
    </button>
  );
}`, formID, scriptURL, triggerID),
	}
}
