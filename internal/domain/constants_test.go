// SPDX-License-Identifier: Apache-2.0

package domain

import "testing"

func TestStatusConstants(t *testing.T) {
	if StatusPending != "pending" {
		t.Fatalf("unexpected StatusPending value: %s", StatusPending)
	}
	if StatusApproved != "approved" {
		t.Fatalf("unexpected StatusApproved value: %s", StatusApproved)
	}
	if StatusRejected != "rejected" {
		t.Fatalf("unexpected StatusRejected value: %s", StatusRejected)
	}
	if StatusExecuted != "executed" {
		t.Fatalf("unexpected StatusExecuted value: %s", StatusExecuted)
	}
	if StatusFailed != "failed" {
		t.Fatalf("unexpected StatusFailed value: %s", StatusFailed)
	}
}

func TestStatusTerminal(t *testing.T) {
	terminal := []Status{StatusRejected, StatusExecuted, StatusFailed}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Fatalf("expected %s to be terminal", s)
		}
	}

	if StatusPending.Terminal() {
		t.Fatal("pending must not be terminal")
	}
	if StatusApproved.Terminal() {
		t.Fatal("approved must not be terminal")
	}
}

func TestRiskConstants(t *testing.T) {
	if RiskLow != "low" {
		t.Fatalf("unexpected RiskLow value: %s", RiskLow)
	}
	if RiskMedium != "medium" {
		t.Fatalf("unexpected RiskMedium value: %s", RiskMedium)
	}
	if RiskHigh != "high" {
		t.Fatalf("unexpected RiskHigh value: %s", RiskHigh)
	}
}
