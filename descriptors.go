// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package e2ap

import (
	"fmt"

	"codello.dev/e2ap/asn1"
	"codello.dev/e2ap/ie"
)

// Protocol limits.
const (
	maxProtocolIEs   = 65535
	maxProcedureCode = 255
	maxofRICactionID = 16
	maxnoofErrors    = 256
)

// Component names of the PDU and message types.
const (
	procedureCodeField = "procedureCode"
	criticalityField   = "criticality"
	valueField         = "value"
	protocolIEsField   = "protocolIEs"
)

//region Common types

var (
	criticalityType   = asn1.EnumeratedType("Criticality", ie.CriticalityValues, false)
	procedureCodeType = asn1.IntegerType("ProcedureCode", asn1.Bounded(0, maxProcedureCode))
	protocolIEIDType  = asn1.IntegerType("ProtocolIE-ID", asn1.Bounded(0, maxProtocolIEs))

	triggeringMessageType = asn1.EnumeratedType("TriggeringMessage",
		[]string{"initiating-message", "successful-outcome", "unsuccessfull-outcome"}, false)
	typeOfErrorType = asn1.EnumeratedType("TypeOfError", []string{"not-understood", "missing"}, true)
)

//endregion

//region IE value types

var (
	transactionIDType = asn1.IntegerType("TransactionID", asn1.Bounded(0, 255).Ext())
	ranFunctionIDType = asn1.IntegerType("RANfunctionID", asn1.Bounded(0, 4095))
	ricActionIDType   = asn1.IntegerType("RICactionID", asn1.Bounded(0, 255))
	ricRequestIDType  = asn1.SequenceType("RICrequestID", true,
		asn1.F("ricRequestorID", asn1.IntegerType("", asn1.Bounded(0, 65535)), ""),
		asn1.F("ricInstanceID", asn1.IntegerType("", asn1.Bounded(0, 65535)), ""),
	)

	ricActionTypeType = asn1.EnumeratedType("RICactionType", []string{"report", "insert", "policy"}, true)
	ricTimeToWaitType = asn1.EnumeratedType("RICtimeToWait", []string{
		"w1ms", "w2ms", "w5ms", "w10ms", "w20ms", "w30ms", "w40ms", "w50ms", "w100ms",
		"w200ms", "w500ms", "w1s", "w2s", "w5s", "w10s", "w20s", "w60s",
	}, true)
	ricSubsequentActionType = asn1.SequenceType("RICsubsequentAction", true,
		asn1.F("ricSubsequentActionType", asn1.EnumeratedType("RICsubsequentActionType", []string{"continue", "wait"}, true), ""),
		asn1.F("ricTimeToWait", ricTimeToWaitType, ""),
	)
	ricActionToBeSetupItemType = asn1.SequenceType("RICaction-ToBeSetup-Item", true,
		asn1.F("ricActionID", ricActionIDType, ""),
		asn1.F("ricActionType", ricActionTypeType, ""),
		asn1.F("ricActionDefinition", asn1.OctetStringType("RICactionDefinition", asn1.Unsized()), "optional"),
		asn1.F("ricSubsequentAction", ricSubsequentActionType, "optional"),
	)
	ricActionAdmittedItemType = asn1.SequenceType("RICaction-Admitted-Item", true,
		asn1.F("ricActionID", ricActionIDType, ""),
	)
	ricActionNotAdmittedItemType = asn1.SequenceType("RICaction-NotAdmitted-Item", true,
		asn1.F("ricActionID", ricActionIDType, ""),
		asn1.F("cause", causeType, ""),
	)

	causeType = asn1.ChoiceType("Cause", true,
		asn1.F("ricRequest", asn1.EnumeratedType("CauseRICrequest", []string{
			"ran-function-id-invalid",
			"action-not-supported",
			"excessive-actions",
			"duplicate-action",
			"duplicate-event-trigger",
			"function-resource-limit",
			"request-id-unknown",
			"inconsistent-action-subsequent-action-sequence",
			"control-message-invalid",
			"ric-call-process-id-invalid",
			"control-timer-expired",
			"control-failed-to-execute",
			"system-not-ready",
			"unspecified",
		}, true), ""),
		asn1.F("ricService", asn1.EnumeratedType("CauseRICservice", []string{
			"ran-function-not-supported",
			"excessive-functions",
			"ric-resource-limit",
		}, true), ""),
		asn1.F("e2Node", asn1.EnumeratedType("CauseE2node", []string{
			"e2node-component-unknown",
		}, true), ""),
		asn1.F("transport", asn1.EnumeratedType("CauseTransport", []string{
			"unspecified",
			"transport-resource-unavailable",
		}, true), ""),
		asn1.F("protocol", asn1.EnumeratedType("CauseProtocol", []string{
			"transfer-syntax-error",
			"abstract-syntax-error-reject",
			"abstract-syntax-error-ignore-and-notify",
			"message-not-compatible-with-receiver-state",
			"semantic-error",
			"abstract-syntax-error-falsely-constructed-message",
			"unspecified",
		}, true), ""),
		asn1.F("misc", asn1.EnumeratedType("CauseMisc", []string{
			"control-processing-overload",
			"hardware-failure",
			"om-intervention",
			"unspecified",
		}, true), ""),
	)

	criticalityDiagnosticsType = asn1.SequenceType("CriticalityDiagnostics", true,
		asn1.F("procedureCode", procedureCodeType, "optional"),
		asn1.F("triggeringMessage", triggeringMessageType, "optional"),
		asn1.F("procedureCriticality", criticalityType, "optional"),
		asn1.F("ricRequestorID", ricRequestIDType, "optional"),
		asn1.F("iEsCriticalityDiagnostics", asn1.SequenceOfType("CriticalityDiagnostics-IE-List",
			asn1.SequenceType("CriticalityDiagnostics-IE-Item", true,
				asn1.F("iECriticality", criticalityType, ""),
				asn1.F("iE-ID", protocolIEIDType, ""),
				asn1.F("typeOfError", typeOfErrorType, ""),
			), asn1.SizeRange(1, maxnoofErrors)), "optional"),
	)

	ricIndicationSNType   = asn1.IntegerType("RICindicationSN", asn1.Bounded(0, 65535))
	ricIndicationTypeType = asn1.EnumeratedType("RICindicationType", []string{"report", "insert"}, true)
	ricControlAckRequest  = asn1.EnumeratedType("RICcontrolAckRequest", []string{"noAck", "ack"}, true)
)

// octetStringTypes are the IE value types that carry opaque service model
// content.
var octetStringTypes = []string{
	"RICcallProcessID",
	"RICcontrolHeader",
	"RICcontrolMessage",
	"RICcontrolOutcome",
	"RICindicationHeader",
	"RICindicationMessage",
}

// singleContainer returns a ProtocolIE-SingleContainer type for the IE with
// the given identifier and value type.
func singleContainer(id int64, t *asn1.Type) *asn1.Type {
	return protocolIEField("ProtocolIE-SingleContainer", map[int64]*asn1.Type{id: t})
}

// protocolIEField returns a ProtocolIE-Field type resolving values through
// types.
func protocolIEField(name string, types map[int64]*asn1.Type) *asn1.Type {
	return asn1.SequenceType(name, false,
		asn1.F(ie.IDField, protocolIEIDType, ""),
		asn1.F(ie.CriticalityField, criticalityType, ""),
		asn1.F(ie.ValueField, asn1.OpenType("", &asn1.Table{Key: ie.IDField, Types: types}), ""),
	)
}

// valueTypes returns the IE value types by type name. The identifiers of IEs
// nested in list types are taken from cat.
func valueTypes(cat *Catalog) (map[string]*asn1.Type, error) {
	id := func(name string) (int64, error) {
		if i, ok := cat.IEID(name); ok {
			return i, nil
		}
		return 0, fmt.Errorf("e2ap: catalog does not assign an identifier to %s", name)
	}
	toBeSetup, err := id("RICaction-ToBeSetup-Item")
	if err != nil {
		return nil, err
	}
	admitted, err := id("RICaction-Admitted-Item")
	if err != nil {
		return nil, err
	}
	notAdmitted, err := id("RICaction-NotAdmitted-Item")
	if err != nil {
		return nil, err
	}

	toBeSetupList := asn1.SequenceOfType("RICactions-ToBeSetup-List",
		singleContainer(toBeSetup, ricActionToBeSetupItemType), asn1.SizeRange(1, maxofRICactionID))
	types := map[string]*asn1.Type{
		"Cause":                      causeType,
		"CriticalityDiagnostics":     criticalityDiagnosticsType,
		"RANfunctionID":              ranFunctionIDType,
		"RICactionID":                ricActionIDType,
		"RICaction-ToBeSetup-Item":   ricActionToBeSetupItemType,
		"RICaction-Admitted-Item":    ricActionAdmittedItemType,
		"RICaction-NotAdmitted-Item": ricActionNotAdmittedItemType,
		"RICaction-Admitted-List": asn1.SequenceOfType("RICaction-Admitted-List",
			singleContainer(admitted, ricActionAdmittedItemType), asn1.SizeRange(1, maxofRICactionID)),
		"RICaction-NotAdmitted-List": asn1.SequenceOfType("RICaction-NotAdmitted-List",
			singleContainer(notAdmitted, ricActionNotAdmittedItemType), asn1.SizeRange(0, maxofRICactionID)),
		"RICcontrolAckRequest": ricControlAckRequest,
		"RICindicationSN":      ricIndicationSNType,
		"RICindicationType":    ricIndicationTypeType,
		"RICrequestID":         ricRequestIDType,
		"RICsubscriptionDetails": asn1.SequenceType("RICsubscriptionDetails", true,
			asn1.F("ricEventTriggerDefinition", asn1.OctetStringType("RICeventTriggerDefinition", asn1.Unsized()), ""),
			asn1.F("ricAction-ToBeSetup-List", toBeSetupList, ""),
		),
		"TimeToWait": asn1.EnumeratedType("TimeToWait",
			[]string{"v1s", "v2s", "v5s", "v10s", "v20s", "v60s"}, true),
		"TransactionID": transactionIDType,
	}
	for _, name := range octetStringTypes {
		types[name] = asn1.OctetStringType(name, asn1.Unsized())
	}
	return types, nil
}

// messageType returns the type of a message that consists of a protocol IE
// container only.
func messageType(name string, container *asn1.Type) *asn1.Type {
	return asn1.SequenceType(name, true, asn1.F(protocolIEsField, container, ""))
}

// outcomeType returns the type of one alternative of the E2AP-PDU.
func outcomeType(name string, messages map[int64]*asn1.Type) *asn1.Type {
	return asn1.SequenceType(name, false,
		asn1.F(procedureCodeField, procedureCodeType, ""),
		asn1.F(criticalityField, criticalityType, ""),
		asn1.F(valueField, asn1.OpenType("", &asn1.Table{Key: procedureCodeField, Types: messages}), ""),
	)
}

//endregion
