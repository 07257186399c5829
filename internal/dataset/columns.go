// Package dataset implements the feature-preparation pipeline for the trade
// and customs shipment table: temporal and risk feature derivation, delay
// reason vectorization, categorical encoding, numeric scaling, and the final
// regression/classification dataset split.
package dataset

// Raw columns of the shipment dataset.
const (
	ColShipmentID         = "Shipment_ID"
	ColRouteCode          = "Route_Code"
	ColCarrierName        = "Carrier_Name"
	ColShipmentDate       = "Shipment_Date"
	ColEstimatedArrival   = "Estimated_Arrival_Date"
	ColActualArrival      = "Actual_Arrival_Date"
	ColDeclaredValue      = "Declared_Value_USD"
	ColWeight             = "Weight_kg"
	ColComplianceScore    = "Compliance_Score"
	ColPriorOffenseCount  = "Prior_Offense_Count"
	ColRouteRiskIndex     = "Route_Risk_Index"
	ColOriginCountry      = "Origin_Country"
	ColDestinationCountry = "Destination_Country"
	ColTransportMode      = "Transport_Mode"
	ColCommodityType      = "Commodity_Type"
	ColTariffCategory     = "Tariff_Category"
	ColInspectionType     = "Inspection_Type"
	ColDocumentStatus     = "Document_Status"
	ColDelayReason        = "Delay_Reason"
)

// Derived columns.
const (
	ColPlannedTransitDays  = "Planned_Transit_Days"
	ColActualTransitDays   = "Actual_Transit_Days"
	ColArrivalDelayDays    = "Arrival_Delay_Days"
	ColShipmentMonth       = "Shipment_Month"
	ColShipmentWeekday     = "Shipment_Weekday"
	ColHasPriorOffense     = "Has_Prior_Offense"
	ColComplianceRiskScore = "Compliance_Risk_Score"
	ColDocumentIssue       = "Document_Issue"
	ColRouteRiskLevel      = "Route_Risk_Level"

	// ColRiskFlag may be present in older exports of the raw dataset; the
	// splitter excludes it when it exists and ignores it otherwise.
	ColRiskFlag = "Risk_Flag"
)

// Targets.
const (
	RegressionTarget     = ColArrivalDelayDays
	ClassificationTarget = ColRouteRiskLevel
)

// RequiredColumns lists the raw columns the loader validates up front.
func RequiredColumns() []string {
	return []string{
		ColShipmentID, ColRouteCode, ColCarrierName,
		ColShipmentDate, ColEstimatedArrival, ColActualArrival,
		ColDeclaredValue, ColWeight, ColComplianceScore,
		ColPriorOffenseCount, ColRouteRiskIndex,
		ColOriginCountry, ColDestinationCountry, ColTransportMode,
		ColCommodityType, ColTariffCategory, ColInspectionType,
		ColDocumentStatus, ColDelayReason,
	}
}

// CategoricalColumns lists the columns the encoder assigns integer codes to.
func CategoricalColumns() []string {
	return []string{
		ColOriginCountry, ColDestinationCountry, ColTransportMode,
		ColCarrierName, ColRouteCode, ColCommodityType,
		ColTariffCategory, ColInspectionType, ColDocumentStatus,
		ColRouteRiskLevel,
	}
}

// NumericColumns lists the columns the scaler standardizes.
func NumericColumns() []string {
	return []string{
		ColDeclaredValue, ColWeight, ColComplianceScore,
		ColPriorOffenseCount, ColRouteRiskIndex,
		ColPlannedTransitDays, ColActualTransitDays,
		ColComplianceRiskScore,
	}
}

// PruneColumns lists the raw columns dropped after feature derivation.
func PruneColumns() []string {
	return []string{
		ColShipmentID, ColShipmentDate, ColEstimatedArrival,
		ColActualArrival, ColDelayReason,
	}
}
