package analysis

import "fmt"

const speakerSystemPrompt = "Você é especialista em identificar nomes de vendedores em transcrições de ligações. Responda sempre com apenas o primeiro nome ou 'NÃO_IDENTIFICADO'."

func speakerPrompt(opening string) string {
	return fmt.Sprintf(`Analise o início desta transcrição de uma ligação de vendas e identifique o nome do vendedor.
O vendedor geralmente se apresenta no início da ligação dizendo algo como:
- "Aqui é o João da Vivo"
- "Meu nome é Maria, da equipe comercial"
- "Fala João aqui"
- "Oi, eu sou a Ana"

INÍCIO DA TRANSCRIÇÃO:
%s

Responda APENAS com o primeiro nome do vendedor (sem sobrenome), ou "NÃO_IDENTIFICADO" se não conseguir identificar.
Exemplos de resposta: "João", "Maria", "Ana", "NÃO_IDENTIFICADO"`, opening)
}

const analysisSystemPrompt = "Você é um especialista em análise de vendas. Analise conversas comerciais e forneça insights práticos e acionáveis para melhorar performance de vendas. Sempre responda em JSON válido."

func analysisPrompt(transcript string) string {
	return fmt.Sprintf(`Você é um especialista em análise de vendas com 20 anos de experiência. Analise esta transcrição de uma ligação de vendas e forneça insights práticos e acionáveis.

TRANSCRIÇÃO DA LIGAÇÃO:
%s

INSTRUÇÕES PARA ANÁLISE:
1. Identifique claramente quem é o VENDEDOR e quem é o CLIENTE na conversa
2. Analise o comportamento, técnicas e performance do vendedor
3. Avalie as reações, objeções e interesse do cliente
4. Foque em insights que podem melhorar as vendas futuras
5. Seja específico e prático nas suas observações

Forneça sua análise em formato JSON com estas informações específicas:

{
  "sentimento_geral": "positivo/neutro/negativo",
  "score_sentimento": -1.0 a 1.0,
  "satisfacao_cliente": "alta/media/baixa",
  "performance_vendedor": "excelente/boa/regular/ruim",
  "nota_vendedor": 1 a 10,
  "produtos_mencionados": ["liste produtos/serviços específicos mencionados"],
  "objecoes_cliente": ["liste objeções específicas do cliente como: preço alto, não precisa agora, etc."],
  "tecnicas_vendas_usadas": ["identifique técnicas como: rapport, descoberta de necessidades, apresentação de benefícios, fechamento, etc."],
  "pontos_fortes": ["o que o vendedor fez bem: escuta ativa, argumentação convincente, etc."],
  "pontos_melhoria": ["o que o vendedor pode melhorar"],
  "resultado_conversa": "venda_fechada/follow_up_agendado/cliente_perdido/indefinido",
  "proximos_passos": ["ações específicas recomendadas: ligar em X dias, enviar proposta, agendar visita, etc."],
  "palavras_chave": ["termos importantes mencionados pelo cliente"],
  "duracao_estimada": "X minutos",
  "nivel_interesse_cliente": "alto/medio/baixo",
  "resumo_executivo": "Resumo de 2-3 frases explicando o que aconteceu na ligação e o resultado",
  "momento_critico": "Identifique o momento mais importante da conversa",
  "oportunidades_perdidas": ["o que o vendedor poderia ter feito diferente para melhorar o resultado"],
  "cliente_perfil": "Descreva brevemente o perfil do cliente",
  "valor_mencionado": "Se algum valor/preço foi mencionado na conversa",
  "concorrentes_citados": ["se outros fornecedores foram mencionados"],
  "urgencia_compra": "alta/media/baixa - baseado na necessidade demonstrada pelo cliente",
  "qualidade_ligacao": "excelente/boa/regular/ruim - considerando clareza da conversa",
  "recomendacoes_especificas": ["sugestões práticas para este vendedor melhorar em próximas ligações"],
  "classificacao_ligacao": "A/B/C/D - onde A=excelente, B=boa, C=regular, D=ruim"
}

IMPORTANTE:
- Seja específico e prático nas suas observações
- Base suas conclusões apenas no que está na transcrição
- Se algo não estiver claro na transcrição, indique "não identificado"
- A nota do vendedor deve ser de 1 a 10, considerando técnicas, resultado e profissionalismo
- Responda APENAS com o JSON válido, sem texto adicional`, transcript)
}

func fallbackPrompt(transcript string) string {
	return fmt.Sprintf(`Analise esta conversa de vendas e responda de forma estruturada:

CONVERSA: %s...

Responda em formato JSON:
{
  "sentimento_geral": "positivo/neutro/negativo",
  "performance_vendedor": "excelente/boa/regular/ruim",
  "nota_vendedor": 1 a 10,
  "resultado_conversa": "venda_fechada/follow_up_agendado/cliente_perdido/indefinido",
  "nivel_interesse_cliente": "alto/medio/baixo",
  "resumo_executivo": "O que aconteceu nesta ligação em 2-3 frases",
  "principal_objecao": "Principal objeção do cliente",
  "recomendacao_principal": "Principal sugestão para melhorar",
  "classificacao_ligacao": "A/B/C/D"
}`, transcript)
}
