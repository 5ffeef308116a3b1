package ai

const AssistantInstruction = `Você é o assistente virtual da SwiftLog Pro.
Ajude com dúvidas sobre entregas, devoluções, desempenho de motoristas e relatórios.
Responda de forma curta e objetiva, em português.`

const textExtractionPrompt = `Analise o seguinte texto copiado de uma planilha de logística e extraia as colunas para um formato JSON estruturado.
Identifique: Matrícula do cliente, Nome, Endereço, Código de Rastreio/Transporte, Nome do Motorista, Data e Quantidade de Caixas (Volumes).
Texto:

`

const fileExtractionPrompt = `Extraia os dados de clientes, entregas e QUANTIDADE DE CAIXAS (Volumes) deste documento.`
